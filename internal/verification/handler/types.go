package handler

import "vigil/internal/verification/models"

// SubmitRequest is the submission body: the identity claim plus the encoded
// document and selfie images.
type SubmitRequest struct {
	Claim models.IdentityClaim     `json:"claim" validate:"required"`
	Media models.VerificationMedia `json:"media" validate:"required"`
}

// OverrideRequest is the manual override body. The approver comes from the
// operator token, not the body.
type OverrideRequest struct {
	SubjectID string `json:"subject_id" validate:"required,notblank"`
	Approved  bool   `json:"approved"`
	Notes     string `json:"notes" validate:"max=2000"`
}

// ResultResponse is the canonical verification result DTO.
type ResultResponse struct {
	VerificationID string         `json:"verification_id"`
	Status         models.Status  `json:"status"`
	Confidence     float64        `json:"confidence"`
	MatchScore     float64        `json:"match_score"`
	Details        models.Details `json:"details"`
}

func toResultResponse(result models.VerificationResult) *ResultResponse {
	return &ResultResponse{
		VerificationID: result.VerificationID,
		Status:         result.Status,
		Confidence:     result.Confidence,
		MatchScore:     result.MatchScore,
		Details:        result.Details,
	}
}
