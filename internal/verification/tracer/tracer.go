// Package tracer provides a lightweight tracing abstraction for the
// verification module.
//
// The module emits distributed traces without depending on OpenTelemetry
// APIs at call sites. Two implementations exist: NoopTracer for tests and
// OTelTracer for production.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes. The
	// returned context contains the new span and should be passed to child
	// operations. The span must be ended by calling Span.End().
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Float64 creates a float64 attribute.
func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashSubjectID returns a truncated SHA-256 hash of a subject identifier so
// traces can be correlated without exposing PII.
func HashSubjectID(subjectID string) string {
	if subjectID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(subjectID))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the verification module.
const (
	SpanVerify         = "verification.verify"
	SpanPreflight      = "verification.preflight"
	SpanProviderSubmit = "verification.provider.submit"
	SpanProviderStatus = "verification.provider.status"
	SpanOverride       = "verification.override"
)

// Attribute keys used by the verification module.
const (
	AttrSubjectID      = "subject_id"
	AttrVerificationID = "verification_id"
	AttrStatus         = "status"
	AttrNamesMatch     = "names_match"
	AttrSource         = "source"
)

// Event names used by the verification module.
const (
	EventAuditEmitted = "audit.emitted"
	EventNameMismatch = "names.mismatch"
)
