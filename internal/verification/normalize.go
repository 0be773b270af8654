package verification

import (
	"vigil/internal/verification/models"
	"vigil/internal/verification/provider"
)

// NormalizeSubmit folds the provider's synchronous-submit shape into the
// canonical result. Optional checks that did not run stay nil so they
// serialize as explicit null; extracted data is always a non-nil map.
func NormalizeSubmit(resp *provider.SubmitResponse) models.VerificationResult {
	result := models.VerificationResult{
		VerificationID: resp.VerificationID,
		Status:         models.MapProviderStatus(resp.Status),
		Confidence:     resp.Confidence,
		MatchScore:     resp.MatchScore,
		Details: models.Details{
			ExtractedData: map[string]any{},
		},
	}

	checks := resp.Checks
	if checks == nil {
		return result
	}

	if checks.Document != nil {
		result.Details.DocumentVerified = checks.Document.Verified
		result.Details.DocumentType = checks.Document.Type
		if checks.Document.ExtractedData != nil {
			result.Details.ExtractedData = checks.Document.ExtractedData
		}
	}
	if checks.FaceMatch != nil {
		result.Details.FaceMatch = checks.FaceMatch.Match
		if result.MatchScore == 0 {
			result.MatchScore = checks.FaceMatch.Score
		}
	}
	if checks.Liveness != nil {
		result.Details.LivenessCheck = checks.Liveness.Passed
	}
	if checks.AML != nil {
		status := mapAMLStatus(checks.AML.Status)
		result.Details.AMLStatus = &status
		result.Details.AMLDetails = checks.AML.Details
	}
	if checks.AgeEstimation != nil {
		result.Details.AgeEstimation = &models.AgeEstimation{
			Age:        checks.AgeEstimation.Age,
			Confidence: checks.AgeEstimation.Confidence,
		}
	}
	if checks.ProofOfAddress != nil {
		status := mapPOAStatus(checks.ProofOfAddress.Status)
		result.Details.ProofOfAddressStatus = &status
	}

	return result
}

// NormalizeStatus folds the provider's flattened status-poll shape into the
// same canonical result NormalizeSubmit produces.
func NormalizeStatus(resp *provider.StatusResponse) models.VerificationResult {
	result := models.VerificationResult{
		VerificationID: resp.ID,
		Status:         models.MapProviderStatus(resp.Status),
		Details: models.Details{
			ExtractedData: map[string]any{},
		},
	}

	res := resp.Result
	if res == nil {
		return result
	}

	result.Confidence = res.Confidence
	result.MatchScore = res.MatchScore
	result.Details.DocumentVerified = res.DocumentVerified
	result.Details.DocumentType = res.DocumentType
	result.Details.FaceMatch = res.FaceMatch
	result.Details.LivenessCheck = res.LivenessPassed
	if res.Extracted != nil {
		result.Details.ExtractedData = res.Extracted
	}
	if res.AMLStatus != "" {
		status := mapAMLStatus(res.AMLStatus)
		result.Details.AMLStatus = &status
		result.Details.AMLDetails = res.AMLDetails
	}
	if res.AgeEstimation != nil {
		result.Details.AgeEstimation = &models.AgeEstimation{
			Age:        res.AgeEstimation.Age,
			Confidence: res.AgeEstimation.Confidence,
		}
	}
	if res.ProofOfAddressStatus != "" {
		status := mapPOAStatus(res.ProofOfAddressStatus)
		result.Details.ProofOfAddressStatus = &status
	}

	return result
}

// mapAMLStatus maps raw AML vocabulary; anything unrecognized is a hit so
// ambiguity never reads as clear.
func mapAMLStatus(raw string) models.AMLStatus {
	switch raw {
	case "clear", "no_match", "passed":
		return models.AMLClear
	case "pending", "in_review":
		return models.AMLPending
	default:
		return models.AMLHit
	}
}

func mapPOAStatus(raw string) models.ProofOfAddressStatus {
	switch raw {
	case "verified", "approved":
		return models.POAVerified
	case "pending", "in_review":
		return models.POAPending
	default:
		return models.POARejected
	}
}
