package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	"bizledger/pkg/platform/httputil"
	"bizledger/pkg/requestcontext"
)

// Service defines the profile operations exposed over HTTP.
type Service interface {
	CreateProfile(ctx context.Context, cmd models.CreateProfileCommand) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profileID id.ProfileID, cmd models.UpdateProfileCommand) (*models.Profile, error)
	GetProfile(ctx context.Context, profileID id.ProfileID) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
}

// Handler wires profile endpoints to the orchestrator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts profile endpoints on the router. Callers are expected to
// have applied authentication middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/profiles", h.HandleCreate)
	r.Get("/profiles", h.HandleList)
	r.Get("/profiles/{id}", h.HandleGet)
	r.Put("/profiles/{id}", h.HandleUpdate)
}

// HandleCreate handles POST /profiles.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.service.CreateProfile(ctx, req.Command())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create profile",
			"request_id", requestID,
			"party_id", requestcontext.PartyID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "profile created",
		"request_id", requestID,
		"profile_id", profile.ID,
		"tx_id", profile.Ref.TxID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, toProfileResponse(profile))
}

// HandleUpdate handles PUT /profiles/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	profileID, err := id.ParseProfileID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.service.UpdateProfile(ctx, profileID, req.Command())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update profile",
			"request_id", requestID,
			"profile_id", profileID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "profile updated",
		"request_id", requestID,
		"profile_id", profile.ID,
		"version", profile.Version,
		"tx_id", profile.Ref.TxID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}

// HandleGet handles GET /profiles/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profileID, err := id.ParseProfileID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	profile, err := h.service.GetProfile(ctx, profileID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}

// HandleList handles GET /profiles.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, err := h.service.ListProfiles(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list profiles",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListResponse(profiles))
}
