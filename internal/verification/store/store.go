// Package store persists canonical verification results so status lookups
// and operator dashboards do not re-poll the external provider.
package store

import (
	"context"
	"errors"
	"time"

	"vigil/internal/verification/models"
)

// ErrNotFound is returned when no result exists for a verification id.
var ErrNotFound = errors.New("verification result not found")

// Record is one persisted verification outcome. SubjectID links the result
// back to the observer it verifies; Source records whether the result came
// from the provider, a webhook update, or a manual override.
type Record struct {
	VerificationID string
	SubjectID      string
	Source         string
	Result         models.VerificationResult
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Result sources.
const (
	SourceProvider = "provider"
	SourceWebhook  = "webhook"
	SourceOverride = "manual_override"
)

// Store is the persistence boundary for verification results.
// This store is pure I/O; decisions about when to re-poll belong to the service.
type Store interface {
	// Put upserts a record keyed by VerificationID.
	Put(ctx context.Context, record Record) error
	// Get returns the record for a verification id or ErrNotFound.
	Get(ctx context.Context, verificationID string) (*Record, error)
	// GetBySubject returns the most recently updated record for a subject
	// or ErrNotFound.
	GetBySubject(ctx context.Context, subjectID string) (*Record, error)
}
