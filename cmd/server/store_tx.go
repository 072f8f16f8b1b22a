package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bizledger/internal/platform/postgres"
	dErrors "bizledger/pkg/domain-errors"
)

const defaultStoreTxTimeout = 5 * time.Second

// profilePostgresTx scopes the post-commit record store write and its
// compliance event to one Postgres transaction.
type profilePostgresTx struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func newProfilePostgresTx(pool *pgxpool.Pool) *profilePostgresTx {
	return &profilePostgresTx{pool: pool}
}

func (t *profilePostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultStoreTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return postgres.RunInTx(ctx, t.pool, fn)
}
