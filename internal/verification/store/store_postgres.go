package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"vigil/internal/crypto"
	"vigil/internal/verification/models"
)

// PostgresStore persists verification results in PostgreSQL. Check details
// are stored as JSONB since their shape follows the provider's optional
// checks, not a fixed column set.
type PostgresStore struct {
	db     *sql.DB
	crypto *crypto.Service
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore)

// WithEncryption seals the details blob with AES-GCM before it reaches the
// database. The details column then holds a JSON string envelope instead of
// an object. Rows written before encryption was enabled still read back.
func WithEncryption(svc *crypto.Service) PostgresOption {
	return func(s *PostgresStore) {
		s.crypto = svc
	}
}

// NewPostgres constructs a PostgreSQL-backed result store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostgresStore) Put(ctx context.Context, record Record) error {
	details, err := s.encodeDetails(record.Result.Details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO verification_results (verification_id, subject_id, source, status, confidence, match_score, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (verification_id) DO UPDATE SET
			subject_id = EXCLUDED.subject_id,
			source = EXCLUDED.source,
			status = EXCLUDED.status,
			confidence = EXCLUDED.confidence,
			match_score = EXCLUDED.match_score,
			details = EXCLUDED.details,
			updated_at = NOW()
	`
	_, err = s.db.ExecContext(ctx, query,
		record.VerificationID,
		record.SubjectID,
		record.Source,
		string(record.Result.Status),
		record.Result.Confidence,
		record.Result.MatchScore,
		details,
	)
	if err != nil {
		return fmt.Errorf("put verification result: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, verificationID string) (*Record, error) {
	query := `
		SELECT verification_id, subject_id, source, status, confidence, match_score, details, created_at, updated_at
		FROM verification_results
		WHERE verification_id = $1
	`
	return s.scanRecord(s.db.QueryRowContext(ctx, query, verificationID))
}

func (s *PostgresStore) GetBySubject(ctx context.Context, subjectID string) (*Record, error) {
	query := `
		SELECT verification_id, subject_id, source, status, confidence, match_score, details, created_at, updated_at
		FROM verification_results
		WHERE subject_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`
	return s.scanRecord(s.db.QueryRowContext(ctx, query, subjectID))
}

type resultRow interface {
	Scan(dest ...any) error
}

// encodeDetails marshals the details blob, sealing it into a JSON string
// envelope when encryption is enabled.
func (s *PostgresStore) encodeDetails(details models.Details) ([]byte, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("marshal verification details: %w", err)
	}
	if s.crypto == nil {
		return raw, nil
	}
	sealed := s.crypto.Encrypt(string(raw))
	if sealed == "" {
		return nil, fmt.Errorf("encrypt verification details")
	}
	return json.Marshal(sealed)
}

// decodeDetails reverses encodeDetails. A JSON string is an encrypted
// envelope; an object is a plaintext row written before encryption.
func (s *PostgresStore) decodeDetails(raw []byte, details *models.Details) error {
	if s.crypto != nil {
		var envelope string
		if json.Unmarshal(raw, &envelope) == nil {
			plain := s.crypto.Decrypt(envelope)
			if plain == "" {
				return fmt.Errorf("decrypt verification details")
			}
			raw = []byte(plain)
		}
	}
	if err := json.Unmarshal(raw, details); err != nil {
		return fmt.Errorf("unmarshal verification details: %w", err)
	}
	return nil
}

func (s *PostgresStore) scanRecord(row resultRow) (*Record, error) {
	var record Record
	var status string
	var details []byte
	err := row.Scan(
		&record.VerificationID,
		&record.SubjectID,
		&record.Source,
		&status,
		&record.Result.Confidence,
		&record.Result.MatchScore,
		&details,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get verification result: %w", err)
	}
	record.Result.VerificationID = record.VerificationID
	record.Result.Status = models.Status(status)
	if err := s.decodeDetails(details, &record.Result.Details); err != nil {
		return nil, err
	}
	return &record, nil
}
