// Package settings resolves the verification configuration matrix from three
// layers: explicit runtime overrides, an externally-persisted settings store,
// and compiled-in defaults.
//
// The four core connection fields (endpoint, credential id/secret, api key)
// are never read from the store: runtime/environment values must not be
// shadowed by persisted settings. Every other flag may come from the store
// with a hard-coded fallback. Each field is resolved by an explicit ordered
// lookup, not by object merging, to keep that invariant auditable.
package settings

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	dErrors "vigil/pkg/domain-errors"
)

// ErrNotFound is returned by stores when a settings key has no value.
// Resolution treats it as "use the default", never as a failure.
var ErrNotFound = errors.New("setting not found")

// Store is the key/value settings source boundary.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
}

// Settings store keys.
const (
	KeyLivenessMode          = "didit_liveness_mode"
	KeyLivenessLevel         = "didit_liveness_level"
	KeyAMLCheckEnabled       = "didit_aml_check_enabled"
	KeyAMLSensitivity        = "didit_aml_sensitivity"
	KeyAgeEstimationEnabled  = "didit_age_estimation_enabled"
	KeyProofOfAddressEnabled = "didit_proof_of_address_enabled"
)

// Liveness modes. LivenessModeDefault is the compiled-in sentinel meaning
// "provider console decides"; LivenessModeNone disables the check.
const (
	LivenessModeDefault = "console_default"
	LivenessModeNone    = "none"
	LivenessModePassive = "passive"
	LivenessModeActive  = "active"
)

// AML sensitivity levels.
const (
	AMLSensitivityLow    = "low"
	AMLSensitivityMedium = "medium"
	AMLSensitivityHigh   = "high"
)

// Compiled-in defaults.
const (
	defaultAPIEndpoint    = "https://verification.didit.me"
	defaultAMLSensitivity = AMLSensitivityMedium
)

// Config is the fully resolved verification configuration for one call.
type Config struct {
	APIEndpoint      string
	CredentialID     string
	CredentialSecret string
	APIKey           string

	LivenessMode          string
	LivenessLevel         string
	AMLCheckEnabled       bool
	AMLSensitivity        string
	AgeEstimationEnabled  bool
	ProofOfAddressEnabled bool
}

// Overrides carries runtime/environment values. Core connection fields set
// here always win and are never read from the store.
type Overrides struct {
	APIEndpoint      string
	CredentialID     string
	CredentialSecret string
	APIKey           string
}

// Resolver performs per-field ordered lookups against the layered sources.
type Resolver struct {
	store     Store // nil means "no persisted settings"
	overrides Overrides
	logger    *slog.Logger
}

// NewResolver creates a Resolver. The store may be nil.
func NewResolver(store Store, overrides Overrides, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, overrides: overrides, logger: logger}
}

// Resolve produces the effective configuration for one verification call.
// It fails only when a required connection secret is absent from every layer
// it is allowed to come from.
func (r *Resolver) Resolve(ctx context.Context) (Config, error) {
	cfg := Config{
		// Core four: runtime override, else compiled-in default. Never the store.
		APIEndpoint:      coalesce(r.overrides.APIEndpoint, defaultAPIEndpoint),
		CredentialID:     r.overrides.CredentialID,
		CredentialSecret: r.overrides.CredentialSecret,
		APIKey:           r.overrides.APIKey,

		LivenessMode:          r.lookupString(ctx, KeyLivenessMode, LivenessModeDefault),
		LivenessLevel:         r.lookupString(ctx, KeyLivenessLevel, ""),
		AMLCheckEnabled:       r.lookupBool(ctx, KeyAMLCheckEnabled, false),
		AMLSensitivity:        r.lookupString(ctx, KeyAMLSensitivity, defaultAMLSensitivity),
		AgeEstimationEnabled:  r.lookupBool(ctx, KeyAgeEstimationEnabled, false),
		ProofOfAddressEnabled: r.lookupBool(ctx, KeyProofOfAddressEnabled, false),
	}

	if cfg.APIKey == "" {
		return Config{}, dErrors.New(dErrors.CodeConfigMissing, "verification provider api key is not configured")
	}
	if cfg.CredentialSecret == "" {
		return Config{}, dErrors.New(dErrors.CodeConfigMissing, "verification provider credential secret is not configured")
	}

	return cfg, nil
}

// lookupString returns store value > default. Missing keys and store failures
// both fall back; failures are logged since they may hide a real outage.
func (r *Resolver) lookupString(ctx context.Context, key, fallback string) string {
	if r.store == nil {
		return fallback
	}
	val, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && r.logger != nil {
			r.logger.Warn("settings store lookup failed, using default",
				"key", key,
				"error", err,
			)
		}
		return fallback
	}
	return val
}

func (r *Resolver) lookupBool(ctx context.Context, key string, fallback bool) bool {
	raw := r.lookupString(ctx, key, "")
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
