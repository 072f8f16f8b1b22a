package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	jwttoken "bizledger/internal/jwt_token"
	"bizledger/internal/platform/config"
	"bizledger/internal/platform/httpserver"
	"bizledger/internal/platform/logger"
	"bizledger/internal/platform/metrics"
	"bizledger/internal/platform/otel"
	profilemetrics "bizledger/internal/profile/metrics"
	"bizledger/internal/profile/service"
	"bizledger/internal/profile/signer"
	"bizledger/internal/ratelimit/bucket"
	ratelimitmetrics "bizledger/internal/ratelimit/metrics"
	ratelimit "bizledger/internal/ratelimit/middleware"
	"bizledger/pkg/platform/audit/publishers/compliance"
	"bizledger/pkg/platform/circuit"
	"bizledger/pkg/platform/strings"
)

// main wires configuration, backends and the HTTP router, then runs the
// server until SIGINT/SIGTERM. Business logic lives in internal/profile.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bizledger: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	keys := signer.NewKeyring()
	if err := keys.LoadSeeds(strings.CleanList(cfg.Parties.Seeds)); err != nil {
		return fmt.Errorf("party seeds: %w", err)
	}

	deps, err := buildBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	auditPublisher := compliance.New(deps.audit,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics()),
	)
	opts := []service.Option{
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(profilemetrics.New()),
		service.WithLedger(deps.ledger),
	}
	if deps.txRunner != nil {
		opts = append(opts, service.WithTxRunner(deps.txRunner))
	}
	svc := service.New(deps.store, keys, keys, deps.notary, opts...)

	limiter := ratelimit.New(deps.limits, log,
		ratelimit.WithLimit(cfg.Limits.Writes, cfg.Limits.Window),
		ratelimit.WithFallback(bucket.NewMemory(), circuit.New("ratelimit-redis")),
		ratelimit.WithMetrics(ratelimitmetrics.New()),
		ratelimit.WithDisabled(cfg.Limits.Disabled),
	)

	tokens := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	router := newRouter(routerDeps{
		logger:  log,
		metrics: metrics.New(),
		tokens:  jwttoken.NewJWTServiceAdapter(tokens),
		service: svc,
		limiter: limiter,
		checks:  deps.checks,
	})
	srv := httpserver.New(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting bizledger", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
