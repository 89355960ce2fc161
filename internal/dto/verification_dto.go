package dto

import (
	"time"

	"github.com/infotier/verify-api/internal/models"
)

// VerificationCreateRequest carries the multipart form fields for a new submission.
type VerificationCreateRequest struct {
	CustomerID    string `json:"customer_id" validate:"required,max=64"`
	UserReference string `json:"user_reference" validate:"required,max=128"`
	IDType        string `json:"id_type" validate:"required,max=32"`
}

// VerificationReceipt is returned immediately from create, before evaluation runs.
type VerificationReceipt struct {
	VerificationID string `json:"verification_id"`
	Status         string `json:"status"`
}

// ManualDecisionRequest carries an administrator's override.
type ManualDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=approved rejected"`
}

// VerificationResponse is the API shape of a verification record.
type VerificationResponse struct {
	ID             string                 `json:"id"`
	CustomerID     string                 `json:"customer_id"`
	UserReference  string                 `json:"user_reference"`
	IDType         string                 `json:"id_type"`
	Status         string                 `json:"status"`
	Score          *float64               `json:"score"`
	DecisionReason *string                `json:"decision_reason"`
	OCRData        map[string]interface{} `json:"ocr_data,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	CompletedAt    *time.Time             `json:"completed_at"`
}

// NewVerificationResponse maps a model to its API representation.
func NewVerificationResponse(v models.Verification) VerificationResponse {
	return VerificationResponse{
		ID:             v.ID,
		CustomerID:     v.CustomerID,
		UserReference:  v.UserReference,
		IDType:         v.IDType,
		Status:         v.Status,
		Score:          v.Score,
		DecisionReason: v.DecisionReason,
		OCRData:        v.OCRData,
		CreatedAt:      v.CreatedAt,
		CompletedAt:    v.CompletedAt,
	}
}

// NewVerificationResponseSlice maps a slice of models.
func NewVerificationResponseSlice(verifications []models.Verification) []VerificationResponse {
	responses := make([]VerificationResponse, 0, len(verifications))
	for _, v := range verifications {
		responses = append(responses, NewVerificationResponse(v))
	}

	return responses
}

// AuditLogResponse is the API shape of an audit entry.
type AuditLogResponse struct {
	ID             uint                   `json:"id"`
	VerificationID string                 `json:"verification_id"`
	Action         string                 `json:"action"`
	Actor          string                 `json:"actor"`
	Meta           map[string]interface{} `json:"meta,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// NewAuditLogResponseSlice maps audit entries to their API representation.
func NewAuditLogResponseSlice(entries []models.AuditLog) []AuditLogResponse {
	responses := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, AuditLogResponse{
			ID:             entry.ID,
			VerificationID: entry.VerificationID,
			Action:         entry.Action,
			Actor:          entry.Actor,
			Meta:           entry.Meta,
			CreatedAt:      entry.CreatedAt,
		})
	}

	return responses
}
