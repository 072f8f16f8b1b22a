package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	id "bizledger/pkg/domain"
	audit "bizledger/pkg/platform/audit"
	txcontext "bizledger/pkg/platform/tx"
)

// Store implements audit.Store on the audit_events table. When the context
// carries a transaction (pkg/platform/tx) the insert joins it.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL audit store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type dbExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.pool
}

// Append inserts an audit event.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := audit.AuditEvent(event.Action).Category()

	var profileID *uuid.UUID
	if !event.ProfileID.IsNil() {
		u := uuid.UUID(event.ProfileID)
		profileID = &u
	}

	query := `
		INSERT INTO audit_events (
			id, category, occurred_at, party_id, profile_id, action,
			version, tx_id, reason, request_id, client_ip
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.execer(ctx).Exec(ctx, query,
		uuid.New(),
		string(category),
		event.Timestamp,
		uuid.UUID(event.PartyID),
		profileID,
		event.Action,
		event.Version,
		event.TxID,
		event.Reason,
		event.RequestID,
		event.ClientIP,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByParty returns a party's audit trail in chronological order.
func (s *Store) ListByParty(ctx context.Context, partyID id.PartyID) ([]audit.Event, error) {
	query := `
		SELECT category, occurred_at, party_id, profile_id, action,
		       version, tx_id, reason, request_id, client_ip
		FROM audit_events
		WHERE party_id = $1
		ORDER BY occurred_at ASC
	`
	rows, err := s.pool.Query(ctx, query, uuid.UUID(partyID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			ev        audit.Event
			category  string
			party     uuid.UUID
			profileID *uuid.UUID
		)
		if err := rows.Scan(&category, &ev.Timestamp, &party, &profileID, &ev.Action,
			&ev.Version, &ev.TxID, &ev.Reason, &ev.RequestID, &ev.ClientIP); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev.Category = audit.EventCategory(category)
		ev.PartyID = id.PartyID(party)
		if profileID != nil {
			ev.ProfileID = id.ProfileID(*profileID)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
