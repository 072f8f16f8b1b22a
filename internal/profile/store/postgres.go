package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	"bizledger/pkg/platform/sentinel"
	txcontext "bizledger/pkg/platform/tx"
)

// PostgresStore keeps current versions in the profile_state table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

type dbExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *PostgresStore) db(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.pool
}

const profileColumns = `
	id, owner_id, owner_name, owner_key, mobile_number, gst_user_name,
	registration_number, registration_status, legal_business_name,
	place_of_business, status, last_modified, tx_id, output_index, version
`

// Insert stores the first version of a profile.
//
// Errors: sentinel.ErrAlreadyUsed when the id exists.
func (s *PostgresStore) Insert(ctx context.Context, p *models.Profile) error {
	query := `INSERT INTO profile_state (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := s.db(ctx).Exec(ctx, query,
		uuid.UUID(p.ID),
		uuid.UUID(p.Owner.ID),
		p.Owner.Name,
		string(p.Owner.OwningKey),
		p.MobileNumber,
		p.GSTUserName,
		p.RegistrationNumber,
		p.RegistrationStatus,
		p.LegalBusinessName,
		p.PlaceOfBusiness,
		string(p.Status),
		p.LastModified,
		p.Ref.TxID,
		p.Ref.Index,
		p.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("profile %s: %w", p.ID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// FindOwned returns the current version of profileID if owner owns it.
// Missing and not-owned are the same sentinel.ErrNotFound.
func (s *PostgresStore) FindOwned(ctx context.Context, profileID id.ProfileID, owner id.PartyID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profile_state WHERE id = $1 AND owner_id = $2`
	p, err := scanProfile(s.db(ctx).QueryRow(ctx, query, uuid.UUID(profileID), uuid.UUID(owner)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return p, nil
}

// ListByOwner returns owner's current versions, oldest modification first.
func (s *PostgresStore) ListByOwner(ctx context.Context, owner id.PartyID) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profile_state
		WHERE owner_id = $1 ORDER BY last_modified ASC, id ASC`
	rows, err := s.db(ctx).Query(ctx, query, uuid.UUID(owner))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

// Replace swaps the current version for next, provided the current version
// is still consumed.
//
// Errors: sentinel.ErrNotFound when the profile is missing;
// sentinel.ErrConflict when the current version is not consumed.
func (s *PostgresStore) Replace(ctx context.Context, consumed models.Ref, next *models.Profile) error {
	query := `UPDATE profile_state SET
			mobile_number = $1, gst_user_name = $2, registration_status = $3,
			legal_business_name = $4, place_of_business = $5, status = $6,
			last_modified = $7, tx_id = $8, output_index = $9, version = $10
		WHERE id = $11 AND tx_id = $12 AND output_index = $13`
	tag, err := s.db(ctx).Exec(ctx, query,
		next.MobileNumber,
		next.GSTUserName,
		next.RegistrationStatus,
		next.LegalBusinessName,
		next.PlaceOfBusiness,
		string(next.Status),
		next.LastModified,
		next.Ref.TxID,
		next.Ref.Index,
		next.Version,
		uuid.UUID(next.ID),
		consumed.TxID,
		consumed.Index,
	)
	if err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := s.db(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profile_state WHERE id = $1)`,
		uuid.UUID(next.ID)).Scan(&exists); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("profile %s moved past %s: %w", next.ID, consumed, sentinel.ErrConflict)
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var (
		p        models.Profile
		pid      uuid.UUID
		ownerID  uuid.UUID
		ownerKey string
		status   string
	)
	err := row.Scan(
		&pid,
		&ownerID,
		&p.Owner.Name,
		&ownerKey,
		&p.MobileNumber,
		&p.GSTUserName,
		&p.RegistrationNumber,
		&p.RegistrationStatus,
		&p.LegalBusinessName,
		&p.PlaceOfBusiness,
		&status,
		&p.LastModified,
		&p.Ref.TxID,
		&p.Ref.Index,
		&p.Version,
	)
	if err != nil {
		return nil, err
	}
	p.ID = id.ProfileID(pid)
	p.Owner.ID = id.PartyID(ownerID)
	p.Owner.OwningKey = models.PublicKey(ownerKey)
	p.Status = id.ProfileStatus(status)
	return &p, nil
}
