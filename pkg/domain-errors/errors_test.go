package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("redis: connection refused")
	err := Wrap(cause, CodeUnavailable, "notary unavailable")

	require.Error(t, err)
	assert.Equal(t, "notary unavailable", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, CodeUnavailable))
	assert.False(t, HasCode(err, CodeInternal))
}

func TestHasCode(t *testing.T) {
	t.Run("nil error has no code", func(t *testing.T) {
		assert.False(t, HasCode(nil, CodeInternal))
	})

	t.Run("plain error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})

	t.Run("code survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("create profile: %w", New(CodeNotFound, "profile not found"))
		assert.True(t, Is(err, CodeNotFound))
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("outermost code wins", func(t *testing.T) {
		inner := New(CodeConflict, "already consumed")
		outer := Wrap(inner, CodeInternal, "failed")
		assert.Equal(t, CodeInternal, CodeOf(outer))
	})
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeValidation:   http.StatusUnprocessableEntity,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeUnavailable:  http.StatusServiceUnavailable,
		CodeTimeout:      http.StatusGatewayTimeout,
		CodeRateLimited:  http.StatusTooManyRequests,
		CodeInternal:     http.StatusInternalServerError,
		Code("unknown"):  http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), "code %s", code)
	}
}
