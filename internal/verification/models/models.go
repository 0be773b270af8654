// Package models defines the canonical, provider-independent data model for
// identity verification. All types here are value objects; the orchestrating
// service operates on values passed in and returned out.
package models

// IdentityClaim carries the user-asserted identity fields, unverified until
// cross-checked against extracted document data. Never persisted by the core.
type IdentityClaim struct {
	FirstName    string `json:"first_name" validate:"required,notblank"`
	LastName     string `json:"last_name" validate:"required,notblank"`
	DateOfBirth  string `json:"date_of_birth" validate:"required"`
	NationalID   string `json:"national_id" validate:"required,notblank"`
	DocumentType string `json:"document_type" validate:"required"`
}

// VerificationMedia holds the opaque encoded image blobs, passed through to
// the provider untouched.
type VerificationMedia struct {
	DocumentImage string `json:"document_image" validate:"required"`
	SelfieImage   string `json:"selfie_image" validate:"required"`
}

// Status is the canonical verification status. The provider's raw status
// vocabulary is mapped into exactly these three values.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// AMLStatus reports the outcome of anti-money-laundering screening.
type AMLStatus string

const (
	AMLClear   AMLStatus = "clear"
	AMLPending AMLStatus = "pending"
	AMLHit     AMLStatus = "hit"
)

// ProofOfAddressStatus reports the outcome of proof-of-address review.
type ProofOfAddressStatus string

const (
	POAVerified ProofOfAddressStatus = "verified"
	POAPending  ProofOfAddressStatus = "pending"
	POARejected ProofOfAddressStatus = "rejected"
)

// AgeEstimation is the provider's biometric age estimate.
type AgeEstimation struct {
	Age        float64 `json:"age"`
	Confidence float64 `json:"confidence"`
}

// Details carries the per-check breakdown of a verification.
//
// Optional checks use pointer fields that serialize as explicit null when the
// check did not run, never as absent keys, so downstream consumers never
// branch on field presence.
type Details struct {
	DocumentVerified bool           `json:"document_verified"`
	FaceMatch        bool           `json:"face_match"`
	LivenessCheck    bool           `json:"liveness_check"`
	DocumentType     string         `json:"document_type"`
	ExtractedData    map[string]any `json:"extracted_data"`

	AMLStatus            *AMLStatus            `json:"aml_status"`
	AMLDetails           any                   `json:"aml_details"`
	AgeEstimation        *AgeEstimation        `json:"age_estimation"`
	ProofOfAddressStatus *ProofOfAddressStatus `json:"proof_of_address_status"`
}

// VerificationResult is the canonical record returned to callers regardless
// of which provider response shape produced it.
type VerificationResult struct {
	VerificationID string  `json:"verification_id"`
	Status         Status  `json:"status"`
	Confidence     float64 `json:"confidence"`
	MatchScore     float64 `json:"match_score"`
	Details        Details `json:"details"`
}

// MapProviderStatus folds the provider's raw status vocabulary into the
// canonical three values. Anything unrecognized is pending, never approved.
func MapProviderStatus(raw string) Status {
	switch raw {
	case "completed", "verified", "approved":
		return StatusApproved
	case "failed", "rejected", "declined":
		return StatusRejected
	default:
		return StatusPending
	}
}
