package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testLimit  = 3
	testWindow = time.Minute
)

type MemorySuite struct {
	suite.Suite
	now   time.Time
	store *Memory
	ctx   context.Context
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}

func (s *MemorySuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewMemory(WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func (s *MemorySuite) allow(key string) Result {
	res, err := s.store.Allow(s.ctx, key, testLimit, testWindow)
	s.Require().NoError(err)
	return res
}

func (s *MemorySuite) TestAllow() {
	s.Run("first request allowed", func() {
		res := s.allow("party:first")
		s.True(res.Allowed)
		s.Equal(testLimit, res.Limit)
		s.Equal(testLimit-1, res.Remaining)
		s.Equal(s.now.Add(testWindow), res.ResetAt)
	})

	s.Run("request over limit denied", func() {
		for range testLimit {
			s.True(s.allow("party:over").Allowed)
		}
		res := s.allow("party:over")
		s.False(res.Allowed)
		s.Equal(0, res.Remaining)
	})

	s.Run("keys are independent", func() {
		for range testLimit {
			s.allow("party:a")
		}
		s.True(s.allow("party:b").Allowed)
	})
}

func (s *MemorySuite) TestSlidingWindow() {
	start := s.now
	s.allow("party:slide")
	s.now = start.Add(30 * time.Second)
	s.allow("party:slide")
	s.allow("party:slide")
	s.False(s.allow("party:slide").Allowed)

	// the first request leaves the window, the later two still count
	s.now = start.Add(testWindow + time.Second)
	res := s.allow("party:slide")
	s.True(res.Allowed)
	s.Equal(0, res.Remaining)
	s.Equal(start.Add(30*time.Second).Add(testWindow), res.ResetAt)
}

func (s *MemorySuite) TestDeniedResetAtIsOldestRequest() {
	for range testLimit {
		s.allow("party:reset")
	}
	s.now = s.now.Add(10 * time.Second)
	res := s.allow("party:reset")
	s.False(res.Allowed)
	s.Equal(50, res.RetryAfter(s.now))
}

func (s *MemorySuite) TestReset() {
	for range testLimit {
		s.allow("party:clear")
	}
	s.store.Reset("party:clear")
	s.True(s.allow("party:clear").Allowed)
}

func TestMemory_Concurrent(t *testing.T) {
	store := NewMemory()
	const limit = 20

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := store.Allow(context.Background(), "party:race", limit, time.Minute)
			require.NoError(t, err)
			if res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, limit, allowed)
}

func TestResult_RetryAfter(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 1, Result{ResetAt: now}.RetryAfter(now))
	assert.Equal(t, 1, Result{ResetAt: now.Add(-time.Second)}.RetryAfter(now))
	assert.Equal(t, 42, Result{ResetAt: now.Add(42 * time.Second)}.RetryAfter(now))
}
