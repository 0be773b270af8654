// Package handler exposes credential minting and scan verification over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vigil/internal/audit"
	"vigil/internal/credential"
	"vigil/internal/device"
	"vigil/internal/platform/middleware"
	"vigil/internal/verification/metrics"
	dErrors "vigil/pkg/domain-errors"
	"vigil/pkg/platform/httputil"
	"vigil/pkg/validation"
)

// Auditor records credential lifecycle events.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Handler struct {
	signer  *credential.Signer
	auditor Auditor
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures the Handler.
type Option func(*Handler)

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

func New(signer *credential.Signer, auditor Auditor, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{signer: signer, auditor: auditor, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/credentials", h.HandleMint)
	r.Post("/credentials/verify", h.HandleVerify)
	r.Post("/credentials/verify-observer", h.HandleVerifyObserver)
}

// MintRequest asks for a signed payload for one subject.
type MintRequest struct {
	Type string `json:"type" validate:"required,oneof=observer_id station_info assignment"`
	Data any    `json:"data" validate:"required"`
}

// VerifyRequest carries one scanned payload, raw as read off the QR code.
type VerifyRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// VerifyResponse reports the scan outcome.
type VerifyResponse struct {
	Valid   bool             `json:"valid"`
	State   credential.State `json:"state"`
	Summary string           `json:"summary,omitempty"`
}

// ObserverVerifyResponse is the full diagnostic for an observer ID scan.
type ObserverVerifyResponse struct {
	Valid      bool     `json:"valid"`
	ObserverID string   `json:"observer_id,omitempty"`
	Name       string   `json:"name,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// HandleMint creates a signed credential payload for QR rendering.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	payload, err := h.signer.Mint(req.Type, req.Data)
	if err != nil {
		h.logger.ErrorContext(ctx, "credential mint failed", "error", err, "request_id", requestID, "type", req.Type)
		httputil.WriteError(w, err)
		return
	}

	if h.auditor != nil {
		_ = h.auditor.Emit(ctx, audit.Event{
			Action:    audit.ActionCredentialMinted,
			ActorID:   "system",
			SubjectID: subjectOf(payload),
			Detail:    map[string]any{"type": req.Type},
		})
	}
	if h.metrics != nil {
		h.metrics.IncrementCredentialMinted(req.Type)
	}

	httputil.WriteJSON(w, http.StatusCreated, payload)
}

// HandleVerify checks any scanned payload: signature, window, shape.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeVerify(w, r)
	if !ok {
		return
	}

	payload := credential.Parse(req.Payload)
	state := h.signer.Inspect(payload)
	if h.metrics != nil {
		h.metrics.IncrementCredentialVerification(string(state))
	}

	resp := VerifyResponse{Valid: state == credential.StateValid, State: state}
	if resp.Valid {
		resp.Summary = credential.Summary(payload)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleVerifyObserver runs the observer-specific scan validation and returns
// every violated condition, not just the first.
func (h *Handler) HandleVerifyObserver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decodeVerify(w, r)
	if !ok {
		return
	}

	payload := credential.Parse(req.Payload)
	result := h.signer.ValidateObserverCredential(payload)

	if h.auditor != nil {
		ua := r.UserAgent()
		_ = h.auditor.Emit(ctx, audit.Event{
			Action:    audit.ActionCredentialScanned,
			ActorID:   "scanner",
			SubjectID: result.ObserverID,
			Detail: map[string]any{
				"valid":              result.IsValid,
				"errors":             result.Errors,
				"scanner_device":     device.Describe(ua),
				"device_fingerprint": device.Fingerprint(ua, r.RemoteAddr, nil),
			},
		})
	}
	if h.metrics != nil {
		outcome := "valid"
		if !result.IsValid {
			outcome = "invalid"
		}
		h.metrics.IncrementCredentialVerification(outcome)
	}

	httputil.WriteJSON(w, http.StatusOK, ObserverVerifyResponse{
		Valid:      result.IsValid,
		ObserverID: result.ObserverID,
		Name:       result.Name,
		Errors:     result.Errors,
	})
}

func (h *Handler) decodeVerify(w http.ResponseWriter, r *http.Request) (VerifyRequest, bool) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return req, false
	}
	if err := validation.Validate(req); err != nil {
		httputil.WriteError(w, err)
		return req, false
	}
	return req, true
}

func subjectOf(p *credential.Payload) string {
	data, _ := p.Data.(map[string]any)
	if id, _ := data["observerId"].(string); id != "" {
		return id
	}
	return ""
}
