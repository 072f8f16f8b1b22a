package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bizledger/internal/platform/metrics"
	"bizledger/internal/profile/handler"
	ratelimit "bizledger/internal/ratelimit/middleware"
	"bizledger/pkg/platform/httputil"
	authmw "bizledger/pkg/platform/middleware/auth"
	"bizledger/pkg/platform/middleware/metadata"
	"bizledger/pkg/platform/middleware/request"
	"bizledger/pkg/platform/middleware/requesttime"
)

const healthCheckTimeout = 2 * time.Second

type routerDeps struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	tokens  authmw.JWTValidator
	service handler.Service
	limiter *ratelimit.Middleware
	checks  map[string]func(context.Context) error
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(d.metrics.Middleware)

	r.Get("/healthz", healthz(d.checks))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(d.tokens, d.logger))
		if d.limiter != nil {
			r.Use(d.limiter.PartyWrites)
		}
		handler.New(d.service, d.logger).Register(r)
	})
	return r
}

// healthz pings every configured backend. In-memory backends have no check.
func healthz(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		httputil.WriteJSON(w, status, map[string]any{
			"status": http.StatusText(status),
			"checks": results,
		})
	}
}
