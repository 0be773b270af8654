package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string         `json:"id"`
	Action    Action         `json:"action"`
	ActorID   string         `json:"actor_id"`
	SubjectID string         `json:"subject_id"`
	Detail    map[string]any `json:"detail"`
	Hash      string         `json:"hash"`
	Timestamp time.Time      `json:"timestamp"`
}

type Action string

const (
	ActionVerificationSubmitted Action = "verification_submitted"
	ActionVerificationUpdated   Action = "verification_updated"
	ActionManualOverride        Action = "manual_override"
	ActionCredentialMinted      Action = "credential_minted"
	ActionCredentialScanned     Action = "credential_scanned"
)
