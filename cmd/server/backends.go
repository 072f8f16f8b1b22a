package main

import (
	"context"
	"fmt"
	"log/slog"

	"bizledger/internal/platform/config"
	"bizledger/internal/platform/kafka"
	"bizledger/internal/platform/postgres"
	platformredis "bizledger/internal/platform/redis"
	"bizledger/internal/profile/ledger"
	"bizledger/internal/profile/notary"
	"bizledger/internal/profile/service"
	"bizledger/internal/profile/store"
	"bizledger/internal/ratelimit/bucket"
	"bizledger/pkg/platform/audit"
	auditkafka "bizledger/pkg/platform/audit/publishers/kafka"
	auditmemory "bizledger/pkg/platform/audit/store/memory"
	auditpostgres "bizledger/pkg/platform/audit/store/postgres"
	"bizledger/pkg/platform/circuit"
)

// backends are the collaborators chosen from configuration. Each optional
// backend falls back to its in-process implementation when unconfigured.
type backends struct {
	store    service.Store
	notary   service.Notary
	ledger   service.LedgerFeed
	audit    audit.Store
	txRunner service.TxRunner
	limits   bucket.Store
	checks   map[string]func(context.Context) error
	closers  []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func buildBackends(ctx context.Context, cfg config.Server, log *slog.Logger) (*backends, error) {
	b := &backends{checks: make(map[string]func(context.Context) error)}
	var auditStores []audit.Store

	if cfg.PostgresEnabled() {
		pool, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		if err := postgres.Migrate(ctx, pool); err != nil {
			b.Close()
			return nil, err
		}
		b.store = store.NewPostgres(pool)
		b.txRunner = newProfilePostgresTx(pool)
		b.checks["postgres"] = pool.Ping
		auditStores = append(auditStores, auditpostgres.New(pool))
		log.Info("record store: postgres")
	} else {
		b.store = store.NewInMemoryStore()
		log.Info("record store: in-memory")
	}

	if cfg.RedisEnabled() {
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.checks["redis"] = client.Health
		b.notary = notary.NewGuarded(
			notary.NewRedis(client, cfg.Redis.KeyPrefix),
			circuit.New("notary-redis"),
			log,
		)
		b.limits = bucket.NewRedis(client, cfg.Limits.KeyPrefix)
		log.Info("notary: redis")
	} else {
		b.notary = notary.NewInMemory()
		b.limits = bucket.NewMemory()
		log.Info("notary: in-memory")
	}

	if cfg.KafkaEnabled() {
		client, err := kafka.NewClient(ctx, cfg.Kafka)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, client.Close)
		if err := kafka.EnsureTopics(ctx, client, cfg.Kafka); err != nil {
			b.Close()
			return nil, fmt.Errorf("kafka topics: %w", err)
		}
		b.checks["kafka"] = client.Ping
		b.ledger = ledger.NewKafkaFeed(client, cfg.Kafka.TransitionsTopic)
		auditStores = append(auditStores, auditkafka.NewSink(client, cfg.Kafka.AuditTopic))
		log.Info("ledger feed: kafka", "topic", cfg.Kafka.TransitionsTopic)
	} else {
		b.ledger = ledger.NewInMemoryFeed()
		log.Info("ledger feed: in-memory")
	}

	switch len(auditStores) {
	case 0:
		b.audit = auditmemory.NewInMemoryStore()
	case 1:
		b.audit = auditStores[0]
	default:
		b.audit = audit.Tee(auditStores...)
	}
	return b, nil
}
