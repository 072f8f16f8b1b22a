// Package service orchestrates profile transitions.
//
// Every mutation follows the same path: owner-scoped lookup, build the
// proposed version, validate, sign, notarise, then write the record store.
// The record store is written only after the notary has committed, so a
// failure at any earlier step leaves no state behind.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bizledger/internal/profile/metrics"
	"bizledger/internal/profile/models"
	"bizledger/internal/profile/validator"
	"bizledger/pkg/attrs"
	id "bizledger/pkg/domain"
	dErrors "bizledger/pkg/domain-errors"
	"bizledger/pkg/platform/audit"
	"bizledger/pkg/platform/sentinel"
	"bizledger/pkg/requestcontext"
)

// Store holds the current version of every profile.
type Store interface {
	Insert(ctx context.Context, p *models.Profile) error
	FindOwned(ctx context.Context, profileID id.ProfileID, owner id.PartyID) (*models.Profile, error)
	ListByOwner(ctx context.Context, owner id.PartyID) ([]*models.Profile, error)
	Replace(ctx context.Context, consumed models.Ref, next *models.Profile) error
}

// PartyDirectory resolves a caller id into a party with its owning key.
type PartyDirectory interface {
	Party(ctx context.Context, partyID id.PartyID) (models.Party, error)
}

// Signer authorizes a transaction id on behalf of a party.
type Signer interface {
	Sign(ctx context.Context, party models.Party, txID string) (models.Signature, error)
}

// Notary commits a signed transition. It returns sentinel.ErrConflict when
// any consumed version was already consumed by another transaction.
// Consumer returns the committed transaction holding ref, or
// sentinel.ErrNotFound while ref is unconsumed.
type Notary interface {
	Commit(ctx context.Context, st models.SignedTransition) error
	Consumer(ctx context.Context, ref models.Ref) (models.SignedTransition, error)
}

// LedgerFeed records committed transitions.
type LedgerFeed interface {
	Record(ctx context.Context, st models.SignedTransition) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// TxRunner runs fn inside one storage transaction carried on ctx. The
// record store write and its compliance event share that transaction when
// both live in the same database.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the transaction orchestrator for profiles.
type Service struct {
	store          Store
	parties        PartyDirectory
	signer         Signer
	notary         Notary
	ledger         LedgerFeed
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	txRunner       TxRunner
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLedger sets the feed committed transitions are recorded to.
func WithLedger(feed LedgerFeed) Option {
	return func(s *Service) {
		s.ledger = feed
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func WithTxRunner(runner TxRunner) Option {
	return func(s *Service) {
		s.txRunner = runner
	}
}

// New constructs a Service.
func New(store Store, parties PartyDirectory, signer Signer, notary Notary, opts ...Option) *Service {
	s := &Service{
		store:   store,
		parties: parties,
		signer:  signer,
		notary:  notary,
		tracer:  otel.Tracer("bizledger/internal/profile/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// now is the proposal time. Postgres keeps microseconds, so versions read
// back from the store compare equal to the ones that were written.
func (s *Service) now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).UTC().Truncate(time.Microsecond)
}

// callerID returns the authenticated party id from the request context.
func callerID(ctx context.Context) (id.PartyID, error) {
	partyID := requestcontext.PartyID(ctx)
	if partyID.IsNil() {
		return id.PartyID{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	return partyID, nil
}

// caller resolves the authenticated party, including its owning key.
func (s *Service) caller(ctx context.Context) (models.Party, error) {
	partyID, err := callerID(ctx)
	if err != nil {
		return models.Party{}, err
	}
	party, err := s.parties.Party(ctx, partyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Party{}, dErrors.New(dErrors.CodeUnauthorized, "unknown party")
		}
		return models.Party{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve party")
	}
	return party, nil
}

// validate runs the transition validator. A rejection is returned to the
// caller with its reason unchanged.
func (s *Service) validate(ctx context.Context, t models.Transition) error {
	err := validator.ValidateTransition(t)
	if err == nil {
		return nil
	}
	var rejection *validator.Rejection
	if errors.As(err, &rejection) {
		s.metrics.IncrementRejected(rejection.Rule)
		if s.logger != nil {
			s.logger.InfoContext(ctx, "transition rejected",
				"kind", string(t.Kind),
				"rule", rejection.Rule,
				"reason", rejection.Reason,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return dErrors.Wrap(rejection, dErrors.CodeValidation, rejection.Reason)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate transition")
}

// commit seals t, signs it as party and submits it to the notary.
func (s *Service) commit(ctx context.Context, t models.Transition, party models.Party) (models.SignedTransition, error) {
	ctx, span := s.tracer.Start(ctx, "profile.commit")
	defer span.End()

	txID := t.Seal()
	span.SetAttributes(attribute.String("tx_id", txID))

	sig, err := s.signer.Sign(ctx, party, txID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sign")
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return models.SignedTransition{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "no signing key for caller")
		case errors.Is(err, sentinel.ErrUnavailable):
			return models.SignedTransition{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "signer unavailable")
		default:
			return models.SignedTransition{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign transition")
		}
	}

	st := models.SignedTransition{TxID: txID, Transition: t, Signatures: []models.Signature{sig}}
	if err := s.notary.Commit(ctx, st); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "notarise")
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			s.metrics.IncrementConflict()
			for _, in := range t.Inputs {
				s.logAudit(ctx, audit.EventProfileCommitConflict, in, txID,
					"reason", "version already consumed")
			}
			return models.SignedTransition{}, dErrors.Wrap(err, dErrors.CodeConflict,
				"profile was modified concurrently; re-read and retry")
		case errors.Is(err, sentinel.ErrUnavailable):
			return models.SignedTransition{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "notary unavailable")
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			return models.SignedTransition{}, dErrors.Wrap(err, dErrors.CodeTimeout, "notary did not answer in time")
		default:
			return models.SignedTransition{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit transition")
		}
	}
	return st, nil
}

func (s *Service) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txRunner == nil {
		return fn(ctx)
	}
	return s.txRunner.RunInTx(ctx, fn)
}

// publish records a committed transition on the ledger feed. The commit is
// already final, so a feed failure is logged rather than returned.
func (s *Service) publish(ctx context.Context, st models.SignedTransition) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(ctx, st); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to record transition on ledger feed",
			"tx_id", st.TxID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, p models.Profile, txID string, attributes ...any) {
	attributes = append(attributes,
		"party_id", p.Owner.ID.String(),
		"profile_id", p.ID.String(),
		"version", p.Version,
		"tx_id", txID,
	)
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		PartyID:   p.Owner.ID,
		ProfileID: p.ID,
		Action:    string(event),
		Version:   p.Version,
		TxID:      txID,
		Reason:    attrs.ExtractString(attributes, "reason"),
		RequestID: requestID,
		ClientIP:  requestcontext.ClientIP(ctx),
	})
	if err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

// outcome labels a finished operation for the duration histogram.
func outcome(err error) string {
	if err == nil {
		return "committed"
	}
	return string(dErrors.CodeOf(err))
}
