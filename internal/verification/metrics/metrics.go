// Package metrics exposes Prometheus instrumentation for the verification module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	VerificationsSubmittedTotal  *prometheus.CounterVec
	VerificationResultsTotal     *prometheus.CounterVec
	ManualOverridesTotal         *prometheus.CounterVec
	PreflightFailuresTotal       *prometheus.CounterVec
	NameMismatchesTotal          prometheus.Counter
	ProviderRequestDurationSecs  *prometheus.HistogramVec
	CredentialsMintedTotal       *prometheus.CounterVec
	CredentialVerificationsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		VerificationsSubmittedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_verifications_submitted_total",
			Help: "Total number of identity verification submissions",
		}, []string{"outcome"}),
		VerificationResultsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_verification_results_total",
			Help: "Total number of canonical verification results by status and source",
		}, []string{"status", "source"}),
		ManualOverridesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_verification_manual_overrides_total",
			Help: "Total number of manual verification overrides by decision",
		}, []string{"decision"}),
		PreflightFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_verification_preflight_failures_total",
			Help: "Total number of failed provider pre-flight probes",
		}, []string{"reason"}),
		NameMismatchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigil_verification_name_mismatches_total",
			Help: "Total number of verifications downgraded by the name cross-check",
		}),
		ProviderRequestDurationSecs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name: "vigil_verification_provider_request_duration_seconds",
			Help: "Duration of provider HTTP requests in seconds",
		}, []string{"operation"}),
		CredentialsMintedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_credentials_minted_total",
			Help: "Total number of signed credential payloads minted",
		}, []string{"type"}),
		CredentialVerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_credential_verifications_total",
			Help: "Total number of scanned credential verifications by outcome",
		}, []string{"state"}),
	}
}

func (m *Metrics) IncrementSubmitted(outcome string) {
	m.VerificationsSubmittedTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementResult(status, source string) {
	m.VerificationResultsTotal.WithLabelValues(status, source).Inc()
}

func (m *Metrics) IncrementOverride(decision string) {
	m.ManualOverridesTotal.WithLabelValues(decision).Inc()
}

func (m *Metrics) IncrementPreflightFailure(reason string) {
	m.PreflightFailuresTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementNameMismatch() {
	m.NameMismatchesTotal.Inc()
}

func (m *Metrics) ObserveProviderRequest(operation string, seconds float64) {
	m.ProviderRequestDurationSecs.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) IncrementCredentialMinted(credentialType string) {
	m.CredentialsMintedTotal.WithLabelValues(credentialType).Inc()
}

func (m *Metrics) IncrementCredentialVerification(state string) {
	m.CredentialVerificationsTotal.WithLabelValues(state).Inc()
}
