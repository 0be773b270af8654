// Package device derives one-way device fingerprints and classifies the risk
// of actions performed from them. Fingerprints are derived values used only
// for comparison, never reversed and never stored as entities.
package device

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/mssola/useragent"
)

// RiskLevel buckets an action into low, medium, or high risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// sensitiveActions elevate risk even from a known device.
var sensitiveActions = map[string]struct{}{
	"login":           {},
	"password_change": {},
	"data_export":     {},
	"admin_access":    {},
}

// Fingerprint hashes the device context into a stable identifier.
//
// The hashed material deliberately excludes call time: a fingerprint exists to
// recognize the same device across sessions, so identical inputs must produce
// identical output. Extra context keys are included in sorted order via JSON
// map serialization.
func Fingerprint(userAgent, ipAddress string, extra map[string]string) string {
	material := map[string]string{
		"user_agent": userAgent,
		"ip_address": ipAddress,
	}
	for k, v := range extra {
		material[k] = v
	}
	// json.Marshal sorts map keys, so serialization is deterministic.
	payload, err := json.Marshal(material)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Compare checks two fingerprints in constant time to avoid leaking
// fingerprint structure through timing.
func Compare(stored, current string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(current)) == 1
}

// ClassifyRisk buckets an action. Unknown devices are always high risk;
// sensitive actions from known devices are medium; everything else is low.
func ClassifyRisk(action string, knownDevice bool) RiskLevel {
	if !knownDevice {
		return RiskHigh
	}
	if _, ok := sensitiveActions[action]; ok {
		return RiskMedium
	}
	return RiskLow
}

// Describe extracts a human-readable device display name from a User-Agent
// string, e.g. "Chrome on macOS". Presentation only, not part of any contract.
func Describe(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		platform := ua.Platform()
		if platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
