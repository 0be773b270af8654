package verification

import (
	"strings"
	"time"

	"vigil/internal/verification/models"
	"vigil/internal/verification/provider"
	"vigil/internal/verification/settings"
)

const (
	// requestSource tags every submission so provider-side logs can be
	// attributed to this platform.
	requestSource = "vigil-observer-platform"

	// documentCountry is fixed; the platform operates Jamaican elections.
	documentCountry = "JM"
)

// BuildProviderRequest assembles the provider payload. It is a pure function
// of claim, media, config, and clock: a fixed required skeleton plus optional
// blocks appended behind named predicates, so gate ordering cannot drift.
func BuildProviderRequest(
	claim models.IdentityClaim,
	media models.VerificationMedia,
	cfg settings.Config,
	callbackURL string,
	now time.Time,
) provider.Request {
	req := provider.Request{
		ReferenceID: claim.NationalID,
		Claimant: provider.Claimant{
			FirstName:   claim.FirstName,
			LastName:    claim.LastName,
			DateOfBirth: claim.DateOfBirth,
		},
		Document: provider.Document{
			Type:       strings.ToLower(claim.DocumentType),
			FrontImage: media.DocumentImage,
			Country:    documentCountry,
		},
		Biometric: provider.Biometric{
			SelfieImage:      media.SelfieImage,
			LivenessRequired: livenessRequired(cfg),
		},
		Callback: provider.Callback{URL: callbackURL},
		Metadata: provider.Metadata{
			Source:      requestSource,
			SubmittedAt: now.UTC().Format(time.RFC3339),
		},
	}

	if livenessModeOverridden(cfg) {
		req.Biometric.Mode = cfg.LivenessMode
	}
	// Level is independent of whether the mode was overridden.
	if cfg.LivenessLevel != "" {
		req.Biometric.Level = cfg.LivenessLevel
	}

	if cfg.AMLCheckEnabled {
		req.AML = &provider.AMLBlock{Required: true, Sensitivity: cfg.AMLSensitivity}
	}
	if cfg.AgeEstimationEnabled {
		req.AgeEstimation = &provider.CheckBlock{Required: true}
	}
	if cfg.ProofOfAddressEnabled {
		req.ProofOfAddress = &provider.CheckBlock{Required: true}
	}

	return req
}

func livenessRequired(cfg settings.Config) bool {
	return cfg.LivenessMode != settings.LivenessModeNone
}

func livenessModeOverridden(cfg settings.Config) bool {
	return cfg.LivenessMode != settings.LivenessModeDefault && cfg.LivenessMode != settings.LivenessModeNone
}
