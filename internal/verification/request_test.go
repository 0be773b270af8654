package verification

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigil/internal/verification/models"
	"vigil/internal/verification/settings"
)

func testClaim() models.IdentityClaim {
	return models.IdentityClaim{
		FirstName:    "Jane",
		LastName:     "Doe",
		DateOfBirth:  "1985-03-14",
		NationalID:   "198503140001",
		DocumentType: "National_ID",
	}
}

func testMedia() models.VerificationMedia {
	return models.VerificationMedia{
		DocumentImage: "ZG9jLWZyb250",
		SelfieImage:   "c2VsZmll",
	}
}

func TestBuildProviderRequestSkeleton(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	cfg := settings.Config{LivenessMode: settings.LivenessModeDefault}

	req := BuildProviderRequest(testClaim(), testMedia(), cfg, "https://vigil.example/webhooks/didit", now)

	assert.Equal(t, "198503140001", req.ReferenceID)
	assert.Equal(t, "Jane", req.Claimant.FirstName)
	assert.Equal(t, "Doe", req.Claimant.LastName)
	assert.Equal(t, "1985-03-14", req.Claimant.DateOfBirth)
	assert.Equal(t, "national_id", req.Document.Type, "document type is lowercased")
	assert.Equal(t, "ZG9jLWZyb250", req.Document.FrontImage)
	assert.Equal(t, "JM", req.Document.Country)
	assert.Equal(t, "c2VsZmll", req.Biometric.SelfieImage)
	assert.Equal(t, "https://vigil.example/webhooks/didit", req.Callback.URL)
	assert.Equal(t, "vigil-observer-platform", req.Metadata.Source)
	assert.Equal(t, "2026-08-28T10:30:00Z", req.Metadata.SubmittedAt)
}

func TestBuildProviderRequestLivenessGates(t *testing.T) {
	now := time.Now()

	tests := []struct {
		mode         string
		level        string
		wantRequired bool
		wantMode     string
		wantLevel    string
	}{
		{settings.LivenessModeDefault, "", true, "", ""},
		{settings.LivenessModeDefault, "standard", true, "", "standard"},
		{settings.LivenessModeNone, "", false, "", ""},
		// Level rides along even when the mode itself is suppressed.
		{settings.LivenessModeNone, "standard", false, "", "standard"},
		{settings.LivenessModePassive, "", true, "passive", ""},
		{settings.LivenessModeActive, "high", true, "active", "high"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("mode=%s level=%q", tt.mode, tt.level), func(t *testing.T) {
			cfg := settings.Config{LivenessMode: tt.mode, LivenessLevel: tt.level}
			req := BuildProviderRequest(testClaim(), testMedia(), cfg, "", now)

			assert.Equal(t, tt.wantRequired, req.Biometric.LivenessRequired)
			assert.Equal(t, tt.wantMode, req.Biometric.Mode)
			assert.Equal(t, tt.wantLevel, req.Biometric.Level)
		})
	}
}

func TestBuildProviderRequestOptionalCheckMatrix(t *testing.T) {
	now := time.Now()

	// Every combination of the three optional checks; each block must appear
	// exactly when its flag is set, independent of the others.
	for _, aml := range []bool{false, true} {
		for _, age := range []bool{false, true} {
			for _, poa := range []bool{false, true} {
				name := fmt.Sprintf("aml=%t age=%t poa=%t", aml, age, poa)
				t.Run(name, func(t *testing.T) {
					cfg := settings.Config{
						LivenessMode:          settings.LivenessModeDefault,
						AMLCheckEnabled:       aml,
						AMLSensitivity:        settings.AMLSensitivityHigh,
						AgeEstimationEnabled:  age,
						ProofOfAddressEnabled: poa,
					}
					req := BuildProviderRequest(testClaim(), testMedia(), cfg, "", now)

					if aml {
						require.NotNil(t, req.AML)
						assert.True(t, req.AML.Required)
						assert.Equal(t, settings.AMLSensitivityHigh, req.AML.Sensitivity)
					} else {
						assert.Nil(t, req.AML)
					}
					if age {
						require.NotNil(t, req.AgeEstimation)
						assert.True(t, req.AgeEstimation.Required)
					} else {
						assert.Nil(t, req.AgeEstimation)
					}
					if poa {
						require.NotNil(t, req.ProofOfAddress)
						assert.True(t, req.ProofOfAddress.Required)
					} else {
						assert.Nil(t, req.ProofOfAddress)
					}
				})
			}
		}
	}
}
