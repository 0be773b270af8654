// Package credential mints and verifies short-lived signed credential
// payloads, the content encoded into observer and station QR codes.
//
// The wire format is the JSON object {type, data, timestamp, signature} and is
// a bit-exact contract: anything that scans or produces these credentials must
// serialize this exact shape to interoperate with already-issued credentials.
package credential

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"time"

	"vigil/internal/crypto"
	dErrors "vigil/pkg/domain-errors"
)

// ValidityWindow is how long a minted credential verifies after its timestamp.
// Expired credentials are re-minted by the issuer, never renewed or repaired.
const ValidityWindow = 24 * time.Hour

// Known credential types.
const (
	TypeObserverID  = "observer_id"
	TypeStationInfo = "station_info"
	TypeAssignment  = "assignment"
)

// Payload is a signed, timestamped credential. It is never mutated after
// creation; verification failure produces a boolean, not a repaired object.
type Payload struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
	Signature string `json:"signature"`
}

// State classifies the outcome of scanning a credential. All states are
// terminal; there is no renewal path.
type State string

const (
	StateValid     State = "valid"
	StateExpired   State = "expired"
	StateTampered  State = "tampered"
	StateMalformed State = "malformed"
)

// Signer mints and verifies credential payloads with a keyed hash.
type Signer struct {
	secret string
	now    func() time.Time
}

// Option configures the Signer.
type Option func(*Signer)

// WithClock overrides the time source, used by tests to cross the validity window.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// New creates a Signer. The secret is required; it keys every signature.
func New(secret string, opts ...Option) (*Signer, error) {
	if secret == "" {
		return nil, dErrors.New(dErrors.CodeConfigMissing, "credential signing secret is required")
	}
	s := &Signer{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Mint stamps the current time, signs {type, data, timestamp}, and returns the
// payload with the signature attached.
//
// Data is canonicalized through JSON before signing so that a payload
// re-parsed from its wire form produces the identical signing material.
func (s *Signer) Mint(credType string, data any) (*Payload, error) {
	if credType == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential type is required")
	}
	canonical, err := canonicalize(data)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "credential data is not serializable")
	}

	p := &Payload{
		Type:      credType,
		Data:      canonical,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	material, err := signingMaterial(p)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not serialize credential")
	}
	p.Signature = crypto.HashKeyed(s.secret, material)
	return p, nil
}

// Verify recomputes the signature over {type, data, timestamp} with the
// signature stripped, compares it in constant time, and checks the validity
// window. Both conditions must hold. Any structural error fails closed.
func (s *Signer) Verify(p *Payload) bool {
	return s.Inspect(p) == StateValid
}

// Inspect classifies a scanned payload. Verify is the boolean form; Inspect
// exists so operators see why a scan was rejected.
func (s *Signer) Inspect(p *Payload) State {
	if p == nil || p.Type == "" || p.Timestamp == "" || p.Signature == "" {
		return StateMalformed
	}
	issued, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		return StateMalformed
	}

	material, err := signingMaterial(p)
	if err != nil {
		return StateMalformed
	}
	expected := crypto.HashKeyed(s.secret, material)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(p.Signature)) != 1 {
		return StateTampered
	}

	if s.now().Sub(issued) > ValidityWindow {
		return StateExpired
	}
	return StateValid
}

// Parse deserializes a scanned string and checks the presence of type, data,
// and timestamp. Returns nil on malformed input rather than an error.
func Parse(raw string) *Payload {
	var probe struct {
		Type      *string `json:"type"`
		Data      any     `json:"data"`
		Timestamp *string `json:"timestamp"`
		Signature string  `json:"signature"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil
	}
	if probe.Type == nil || *probe.Type == "" || probe.Timestamp == nil || *probe.Timestamp == "" || probe.Data == nil {
		return nil
	}
	return &Payload{
		Type:      *probe.Type,
		Data:      probe.Data,
		Timestamp: *probe.Timestamp,
		Signature: probe.Signature,
	}
}

// ObserverValidation is the full diagnostic for an observer credential scan.
type ObserverValidation struct {
	IsValid    bool
	ObserverID string
	Name       string
	Errors     []string
}

// ValidateObserverCredential layers domain checks on Verify for observer ID
// credentials. All violated conditions are accumulated so the caller gets a
// complete diagnostic, not just the first failure.
func (s *Signer) ValidateObserverCredential(p *Payload) ObserverValidation {
	v := ObserverValidation{}

	if p == nil {
		v.Errors = append(v.Errors, "credential payload is missing")
		return v
	}

	switch s.Inspect(p) {
	case StateValid:
	case StateExpired:
		v.Errors = append(v.Errors, "credential has expired")
	case StateTampered:
		v.Errors = append(v.Errors, "credential signature is invalid")
	default:
		v.Errors = append(v.Errors, "credential payload is malformed")
	}

	if p.Type != TypeObserverID {
		v.Errors = append(v.Errors, fmt.Sprintf("unexpected credential type %q", p.Type))
	}

	data, _ := p.Data.(map[string]any)
	if id, _ := data["observerId"].(string); id != "" {
		v.ObserverID = id
	} else {
		v.Errors = append(v.Errors, "observer id is missing")
	}
	if name, _ := data["name"].(string); name != "" {
		v.Name = name
	} else {
		v.Errors = append(v.Errors, "observer name is missing")
	}

	v.IsValid = len(v.Errors) == 0
	return v
}

// canonicalize round-trips data through JSON so the in-memory representation
// matches what Parse produces from the wire form.
func canonicalize(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// signingMaterial serializes the signed fields in fixed order with the
// signature excluded. Map keys inside data serialize sorted, so the material
// is deterministic for any payload that has been canonicalized or parsed.
func signingMaterial(p *Payload) (string, error) {
	material := struct {
		Type      string `json:"type"`
		Data      any    `json:"data"`
		Timestamp string `json:"timestamp"`
	}{p.Type, p.Data, p.Timestamp}
	raw, err := json.Marshal(material)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
