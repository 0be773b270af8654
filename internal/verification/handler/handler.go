// Package handler exposes the verification module over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vigil/internal/platform/middleware"
	"vigil/internal/token"
	"vigil/internal/verification/models"
	"vigil/internal/verification/provider"
	dErrors "vigil/pkg/domain-errors"
	"vigil/pkg/platform/httputil"
	"vigil/pkg/validation"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock_service.go -package=mocks

// Service defines the verification operations the handler depends on.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Verify(ctx context.Context, claim models.IdentityClaim, media models.VerificationMedia) (models.VerificationResult, error)
	Status(ctx context.Context, verificationID string) (models.VerificationResult, error)
	ApplyUpdate(ctx context.Context, resp *provider.StatusResponse) (models.VerificationResult, error)
	ManualOverride(ctx context.Context, subjectID, approverID string, approved bool, notes string) (models.VerificationResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public verification routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verifications", h.HandleSubmit)
	r.Get("/verifications/{id}", h.HandleStatus)
	r.Post("/webhooks/verification", h.HandleWebhook)
}

// RegisterAdmin mounts the operator-only routes behind the token middleware.
func (h *Handler) RegisterAdmin(r chi.Router, tokens *token.Service) {
	r.Group(func(r chi.Router) {
		r.Use(token.RequireOperator(tokens, token.RoleAdmin))
		r.Post("/admin/verifications/override", h.HandleOverride)
	})
}

// HandleSubmit runs a full verification for one identity claim.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Verify(ctx, req.Claim, req.Media)
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResultResponse(result))
}

// HandleStatus returns the current canonical result for a verification id.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	verificationID := chi.URLParam(r, "id")
	if verificationID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "verification id is required"))
		return
	}

	result, err := h.service.Status(ctx, verificationID)
	if err != nil {
		h.logger.ErrorContext(ctx, "status poll failed", "error", err, "request_id", requestID, "verification_id", verificationID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResultResponse(result))
}

// HandleWebhook ingests asynchronous result updates pushed by the provider.
// The provider retries on non-2xx, so decode failures are answered with 400
// and everything else with 200.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var update provider.StatusResponse
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid webhook body"))
		return
	}

	if _, err := h.service.ApplyUpdate(ctx, &update); err != nil {
		h.logger.ErrorContext(ctx, "webhook update failed", "error", err, "request_id", requestID, "verification_id", update.ID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleOverride applies a manual verification decision. The approver is the
// authenticated operator, never a request field.
func (h *Handler) HandleOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	claims, ok := token.ClaimsFromContext(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing operator identity"))
		return
	}

	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.ManualOverride(ctx, req.SubjectID, claims.OperatorID, req.Approved, req.Notes)
	if err != nil {
		h.logger.ErrorContext(ctx, "manual override failed", "error", err, "request_id", requestID, "subject_id", req.SubjectID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResultResponse(result))
}
