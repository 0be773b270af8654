// Package provider implements the HTTP boundary to the external identity
// verification provider. It owns the wire shapes for both directions and the
// normalized error taxonomy; callers never see raw provider error bodies.
package provider

// Request is the JSON payload for one verification submission. Optional
// check blocks are pointers so that disabled checks are omitted entirely
// rather than sent as empty objects.
type Request struct {
	ReferenceID    string      `json:"reference_id"`
	Claimant       Claimant    `json:"claimant"`
	Document       Document    `json:"document"`
	Biometric      Biometric   `json:"biometric"`
	AML            *AMLBlock   `json:"aml,omitempty"`
	AgeEstimation  *CheckBlock `json:"age_estimation,omitempty"`
	ProofOfAddress *CheckBlock `json:"proof_of_address,omitempty"`
	Callback       Callback    `json:"callback"`
	Metadata       Metadata    `json:"metadata"`
}

// Claimant carries the claimed identity fields sent for cross-checking.
type Claimant struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
}

// Document is the single document record attached to every submission.
type Document struct {
	Type       string `json:"type"`
	FrontImage string `json:"front_image"`
	Country    string `json:"country"`
}

// Biometric is the selfie/liveness block attached to every submission.
// Mode is attached only when the configured liveness mode overrides the
// provider console default; Level is attached whenever configured,
// independently of Mode.
type Biometric struct {
	SelfieImage      string `json:"selfie_image"`
	LivenessRequired bool   `json:"liveness_required"`
	Mode             string `json:"mode,omitempty"`
	Level            string `json:"level,omitempty"`
}

// AMLBlock requests anti-money-laundering screening.
type AMLBlock struct {
	Required    bool   `json:"required"`
	Sensitivity string `json:"sensitivity"`
}

// CheckBlock requests a simple optional check (age estimation, proof of address).
type CheckBlock struct {
	Required bool `json:"required"`
}

// Callback tells the provider where to deliver asynchronous status updates.
type Callback struct {
	URL string `json:"url"`
}

// Metadata tags the submission with its source and time.
type Metadata struct {
	Source      string `json:"source"`
	SubmittedAt string `json:"submitted_at"`
}

// SubmitResponse is the provider's synchronous-submit response shape.
// Checks and everything inside it are optional; absent checks mean the
// provider did not run them.
type SubmitResponse struct {
	VerificationID string        `json:"verification_id"`
	Status         string        `json:"status"`
	Confidence     float64       `json:"confidence"`
	MatchScore     float64       `json:"match_score"`
	Checks         *SubmitChecks `json:"checks"`
}

// SubmitChecks is the nested per-check breakdown in submit responses.
type SubmitChecks struct {
	Document       *DocumentCheck  `json:"document"`
	FaceMatch      *FaceMatchCheck `json:"face_match"`
	Liveness       *LivenessCheck  `json:"liveness"`
	AML            *AMLResult      `json:"aml"`
	AgeEstimation  *AgeResult      `json:"age_estimation"`
	ProofOfAddress *POAResult      `json:"proof_of_address"`
}

type DocumentCheck struct {
	Verified      bool           `json:"verified"`
	Type          string         `json:"type"`
	ExtractedData map[string]any `json:"extracted_data"`
}

type FaceMatchCheck struct {
	Match bool    `json:"match"`
	Score float64 `json:"score"`
}

type LivenessCheck struct {
	Passed bool `json:"passed"`
}

type AMLResult struct {
	Status  string `json:"status"`
	Details any    `json:"details"`
}

type AgeResult struct {
	Age        float64 `json:"age"`
	Confidence float64 `json:"confidence"`
}

type POAResult struct {
	Status string `json:"status"`
}

// StatusResponse is the provider's status-poll response shape. The provider
// nests poll results differently from synchronous submits; both normalize to
// the same canonical record.
type StatusResponse struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Result *StatusResult `json:"result"`
}

// StatusResult is the flattened check breakdown used by status polls.
type StatusResult struct {
	Confidence           float64        `json:"confidence"`
	MatchScore           float64        `json:"match_score"`
	DocumentVerified     bool           `json:"document_verified"`
	DocumentType         string         `json:"document_type"`
	FaceMatch            bool           `json:"face_match"`
	LivenessPassed       bool           `json:"liveness_passed"`
	Extracted            map[string]any `json:"extracted"`
	AMLStatus            string         `json:"aml_status"`
	AMLDetails           any            `json:"aml_details"`
	AgeEstimation        *AgeResult     `json:"age_estimation"`
	ProofOfAddressStatus string         `json:"proof_of_address_status"`
}
