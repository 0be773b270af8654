// Package verification orchestrates identity verification: it assembles the
// provider request from the resolved configuration matrix, submits it,
// normalizes the heterogeneous provider responses into one canonical result,
// and cross-checks claimed names against extracted document data.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vigil/internal/audit"
	"vigil/internal/crypto"
	"vigil/internal/verification/metrics"
	"vigil/internal/verification/models"
	"vigil/internal/verification/provider"
	"vigil/internal/verification/settings"
	"vigil/internal/verification/store"
	"vigil/internal/verification/tracer"
	dErrors "vigil/pkg/domain-errors"
)

const overrideTokenBytes = 16

// ProviderClient is the boundary to the external verification provider.
type ProviderClient interface {
	Health(ctx context.Context, cfg settings.Config) error
	Submit(ctx context.Context, cfg settings.Config, request provider.Request) (*provider.SubmitResponse, error)
	Status(ctx context.Context, cfg settings.Config, verificationID string) (*provider.StatusResponse, error)
}

// ConfigResolver produces the effective configuration for one call.
type ConfigResolver interface {
	Resolve(ctx context.Context) (settings.Config, error)
}

// Auditor records audit events for verification decisions.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates verification submissions, status polls, webhook
// updates, and manual overrides.
type Service struct {
	provider ProviderClient
	resolver ConfigResolver
	results  store.Store
	auditor  Auditor

	callbackURL string
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
	now         func() time.Time
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer attaches a tracer. Defaults to a no-op tracer.
func WithTracer(t tracer.Tracer) ServiceOption {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithServiceClock injects a clock, used by tests.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the verification orchestrator.
func NewService(
	providerClient ProviderClient,
	resolver ConfigResolver,
	results store.Store,
	auditor Auditor,
	callbackURL string,
	logger *slog.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		provider:    providerClient,
		resolver:    resolver,
		results:     results,
		auditor:     auditor,
		callbackURL: callbackURL,
		logger:      logger,
		tracer:      tracer.NewNoop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify runs one full verification: resolve configuration, pre-flight the
// provider, submit, normalize, cross-check names, persist, audit.
//
// An approved provider result whose extracted names disagree with the claim
// is downgraded to rejected. Fail-closed: ambiguity never upgrades a result.
func (s *Service) Verify(ctx context.Context, claim models.IdentityClaim, media models.VerificationMedia) (result models.VerificationResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify,
		tracer.String(tracer.AttrSubjectID, tracer.HashSubjectID(claim.NationalID)),
	)
	defer func() { span.End(err) }()

	cfg, err := s.resolver.Resolve(ctx)
	if err != nil {
		s.countSubmitted("config_error")
		return models.VerificationResult{}, err
	}

	if err = s.preflight(ctx, cfg); err != nil {
		return models.VerificationResult{}, err
	}

	request := BuildProviderRequest(claim, media, cfg, s.callbackURL, s.now())

	submitStart := s.now()
	resp, err := s.provider.Submit(ctx, cfg, request)
	s.observeProvider("submit", submitStart)
	if err != nil {
		s.countSubmitted("provider_error")
		return models.VerificationResult{}, err
	}

	result = NormalizeSubmit(resp)
	result = s.crossCheckNames(span, claim, result)

	s.persist(ctx, store.Record{
		VerificationID: result.VerificationID,
		SubjectID:      claim.NationalID,
		Source:         store.SourceProvider,
		Result:         result,
	})
	s.emitAudit(ctx, span, audit.Event{
		Action:    audit.ActionVerificationSubmitted,
		ActorID:   claim.NationalID,
		SubjectID: claim.NationalID,
		Detail: map[string]any{
			"verificationId": result.VerificationID,
			"status":         result.Status,
		},
	})

	s.countSubmitted("ok")
	s.countResult(result.Status, store.SourceProvider)
	span.SetAttributes(
		tracer.String(tracer.AttrVerificationID, result.VerificationID),
		tracer.String(tracer.AttrStatus, string(result.Status)),
	)
	return result, nil
}

// Status returns the current result for a verification id. The local store is
// consulted first; a terminal stored result is returned without touching the
// provider. Pending results are re-polled and the refreshed record persisted.
func (s *Service) Status(ctx context.Context, verificationID string) (result models.VerificationResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanProviderStatus,
		tracer.String(tracer.AttrVerificationID, verificationID),
	)
	defer func() { span.End(err) }()

	var subjectID string
	record, storeErr := s.results.Get(ctx, verificationID)
	if storeErr == nil {
		if record.Result.Status != models.StatusPending {
			return record.Result, nil
		}
		subjectID = record.SubjectID
	} else if !errors.Is(storeErr, store.ErrNotFound) {
		s.logger.Warn("result store lookup failed, polling provider",
			"verification_id", verificationID,
			"error", storeErr,
		)
	}

	cfg, err := s.resolver.Resolve(ctx)
	if err != nil {
		return models.VerificationResult{}, err
	}

	pollStart := s.now()
	resp, err := s.provider.Status(ctx, cfg, verificationID)
	s.observeProvider("status", pollStart)
	if err != nil {
		return models.VerificationResult{}, err
	}

	result = NormalizeStatus(resp)
	s.persist(ctx, store.Record{
		VerificationID: result.VerificationID,
		SubjectID:      subjectID,
		Source:         store.SourceProvider,
		Result:         result,
	})
	s.countResult(result.Status, store.SourceProvider)
	return result, nil
}

// ApplyUpdate ingests an asynchronous provider callback for a previously
// submitted verification and persists the refreshed result.
func (s *Service) ApplyUpdate(ctx context.Context, resp *provider.StatusResponse) (models.VerificationResult, error) {
	if resp == nil || resp.ID == "" {
		return models.VerificationResult{}, dErrors.New(dErrors.CodeInvalidInput, "verification update is missing an id")
	}

	result := NormalizeStatus(resp)

	subjectID := ""
	if record, err := s.results.Get(ctx, resp.ID); err == nil {
		subjectID = record.SubjectID
	}

	s.persist(ctx, store.Record{
		VerificationID: result.VerificationID,
		SubjectID:      subjectID,
		Source:         store.SourceWebhook,
		Result:         result,
	})
	s.emitAudit(ctx, nil, audit.Event{
		Action:    audit.ActionVerificationUpdated,
		ActorID:   "provider",
		SubjectID: subjectID,
		Detail: map[string]any{
			"verificationId": result.VerificationID,
			"status":         result.Status,
		},
	})
	s.countResult(result.Status, store.SourceWebhook)
	return result, nil
}

// ManualOverride bypasses the external provider entirely. The synthesized
// result carries a freshly generated token as its verification id, full marks
// when approved and zeros otherwise, and the approver, notes, and decision
// time in extracted data as the audit trail.
func (s *Service) ManualOverride(ctx context.Context, subjectID, approverID string, approved bool, notes string) (result models.VerificationResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanOverride,
		tracer.String(tracer.AttrSubjectID, tracer.HashSubjectID(subjectID)),
	)
	defer func() { span.End(err) }()

	if subjectID == "" {
		return models.VerificationResult{}, dErrors.New(dErrors.CodeInvalidInput, "subject id is required")
	}
	if approverID == "" {
		return models.VerificationResult{}, dErrors.New(dErrors.CodeInvalidInput, "approver id is required")
	}

	verificationID, err := crypto.GenerateToken(overrideTokenBytes)
	if err != nil {
		return models.VerificationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not generate verification id")
	}

	status := models.StatusRejected
	score := 0.0
	if approved {
		status = models.StatusApproved
		score = 100
	}

	decidedAt := s.now().UTC().Format(time.RFC3339)
	result = models.VerificationResult{
		VerificationID: verificationID,
		Status:         status,
		Confidence:     score,
		MatchScore:     score,
		Details: models.Details{
			DocumentVerified: approved,
			FaceMatch:        approved,
			LivenessCheck:    approved,
			ExtractedData: map[string]any{
				"approverId": approverID,
				"notes":      notes,
				"decidedAt":  decidedAt,
			},
		},
	}

	s.persist(ctx, store.Record{
		VerificationID: verificationID,
		SubjectID:      subjectID,
		Source:         store.SourceOverride,
		Result:         result,
	})
	s.emitAudit(ctx, span, audit.Event{
		Action:    audit.ActionManualOverride,
		ActorID:   approverID,
		SubjectID: subjectID,
		Detail: map[string]any{
			"verificationId": verificationID,
			"approved":       approved,
			"notes":          notes,
		},
	})

	if s.metrics != nil {
		decision := "rejected"
		if approved {
			decision = "approved"
		}
		s.metrics.IncrementOverride(decision)
	}
	s.countResult(status, store.SourceOverride)
	return result, nil
}

// preflight probes provider connectivity before a full submission so a
// credentials problem surfaces as an actionable error.
func (s *Service) preflight(ctx context.Context, cfg settings.Config) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanPreflight)

	err := s.provider.Health(ctx, cfg)
	span.End(err)
	if err == nil {
		return nil
	}

	reason := "unreachable"
	if dErrors.HasCode(err, dErrors.CodeProviderUnauthorized) {
		reason = "unauthorized"
	}
	if s.metrics != nil {
		s.metrics.IncrementPreflightFailure(reason)
	}
	s.countSubmitted("preflight_failed")
	return err
}

// crossCheckNames downgrades an approved result when the extracted names do
// not match the claim at the similarity threshold.
func (s *Service) crossCheckNames(span tracer.Span, claim models.IdentityClaim, result models.VerificationResult) models.VerificationResult {
	if result.Status != models.StatusApproved {
		return result
	}

	extractedFirst, _ := result.Details.ExtractedData["first_name"].(string)
	extractedLast, _ := result.Details.ExtractedData["last_name"].(string)

	if NamesConsistent(claim.FirstName, claim.LastName, extractedFirst, extractedLast) {
		return result
	}

	s.logger.Warn("claimed name does not match extracted document name",
		"verification_id", result.VerificationID,
		"first_similarity", Similarity(claim.FirstName, extractedFirst),
		"last_similarity", Similarity(claim.LastName, extractedLast),
	)
	if s.metrics != nil {
		s.metrics.IncrementNameMismatch()
	}
	if span != nil {
		span.AddEvent(tracer.EventNameMismatch)
		span.SetAttributes(tracer.Bool(tracer.AttrNamesMatch, false))
	}

	result.Status = models.StatusRejected
	return result
}

// persist stores the result. Storage failures are logged, not returned; the
// caller already holds the canonical result.
func (s *Service) persist(ctx context.Context, record store.Record) {
	if s.results == nil {
		return
	}
	if err := s.results.Put(ctx, record); err != nil {
		s.logger.Error("failed to persist verification result",
			"verification_id", record.VerificationID,
			"error", err,
		)
	}
}

func (s *Service) emitAudit(ctx context.Context, span tracer.Span, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.Error("failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
		return
	}
	if span != nil {
		span.AddEvent(tracer.EventAuditEmitted)
	}
}

func (s *Service) countSubmitted(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementSubmitted(outcome)
	}
}

func (s *Service) countResult(status models.Status, source string) {
	if s.metrics != nil {
		s.metrics.IncrementResult(string(status), source)
	}
}

func (s *Service) observeProvider(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveProviderRequest(operation, time.Since(start).Seconds())
	}
}
