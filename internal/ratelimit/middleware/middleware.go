// Package middleware limits how many profile writes one party may issue per
// window. Reads are never limited.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bizledger/internal/ratelimit/bucket"
	"bizledger/internal/ratelimit/metrics"
	dErrors "bizledger/pkg/domain-errors"
	"bizledger/pkg/platform/circuit"
	"bizledger/pkg/platform/httputil"
	"bizledger/pkg/requestcontext"
)

const (
	defaultLimit  = 60
	defaultWindow = time.Minute

	// degradedHeader tells callers the in-memory fallback answered.
	degradedHeader = "X-RateLimit-Status"
)

var errNoFallback = errors.New("rate limit fallback not configured")

type Middleware struct {
	primary  bucket.Store
	fallback bucket.Store
	breaker  *circuit.Breaker
	limit    int
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
	now      func() time.Time
}

type Option func(*Middleware)

// WithLimit sets how many writes a party may issue per window.
func WithLimit(limit int, window time.Duration) Option {
	return func(m *Middleware) {
		if limit > 0 {
			m.limit = limit
		}
		if window > 0 {
			m.window = window
		}
	}
}

// WithFallback answers from fallback while breaker is open or when the
// primary store errors.
func WithFallback(fallback bucket.Store, breaker *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.fallback = fallback
		m.breaker = breaker
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = metrics
	}
}

// WithDisabled turns the limiter into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Middleware) {
		m.now = now
	}
}

func New(primary bucket.Store, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		primary: primary,
		limit:   defaultLimit,
		window:  defaultWindow,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("profile write rate limiting disabled")
	}
	return m
}

// PartyWrites limits non-read requests per authenticated party. It must run
// after authentication; requests without a party pass through.
func (m *Middleware) PartyWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled || isRead(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		partyID := requestcontext.PartyID(ctx)
		if partyID.IsNil() {
			next.ServeHTTP(w, r)
			return
		}

		result, degraded, err := m.check(ctx, "party:"+partyID.String()+":writes")
		if err != nil {
			m.logger.ErrorContext(ctx, "failed to check party rate limit",
				"error", err,
				"party_id", partyID.String(),
				"request_id", requestcontext.RequestID(ctx),
			)
			next.ServeHTTP(w, r)
			return
		}

		if degraded {
			w.Header().Set(degradedHeader, "degraded")
		}
		addRateLimitHeaders(w, result)

		if !result.Allowed {
			m.metrics.IncrementDenied()
			m.logger.WarnContext(ctx, "party rate limit exceeded",
				"party_id", partyID.String(),
				"request_id", requestcontext.RequestID(ctx),
				"limit", result.Limit,
			)
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter(m.now())))
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many profile writes; retry later"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// check asks the primary store unless the breaker routes to the fallback.
// degraded reports that the fallback answered.
func (m *Middleware) check(ctx context.Context, key string) (bucket.Result, bool, error) {
	if m.breaker != nil && !m.breaker.Allow() {
		return m.checkFallback(ctx, key)
	}

	result, err := m.primary.Allow(ctx, key, m.limit, m.window)
	if err != nil {
		m.metrics.IncrementErrors()
		if m.breaker == nil {
			return bucket.Result{}, false, err
		}
		if _, change := m.breaker.RecordFailure(); change.Opened {
			m.metrics.SetCircuitOpen(true)
			m.logger.WarnContext(ctx, "rate limit circuit opened", "breaker", m.breaker.Name(), "error", err)
		}
		return m.checkFallback(ctx, key)
	}

	if m.breaker != nil {
		if _, change := m.breaker.RecordSuccess(); change.Closed {
			m.metrics.SetCircuitOpen(false)
			m.logger.InfoContext(ctx, "rate limit circuit closed", "breaker", m.breaker.Name())
		}
	}
	return result, false, nil
}

func (m *Middleware) checkFallback(ctx context.Context, key string) (bucket.Result, bool, error) {
	if m.fallback == nil {
		return bucket.Result{}, false, errNoFallback
	}
	m.metrics.IncrementFallback()
	result, err := m.fallback.Allow(ctx, key, m.limit, m.window)
	return result, true, err
}

func isRead(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func addRateLimitHeaders(w http.ResponseWriter, result bucket.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
