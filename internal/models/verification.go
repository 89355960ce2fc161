package models

import (
	"time"

	"gorm.io/datatypes"
)

// Verification represents one applicant's identity-check case, from submission
// to final or overridden decision.
type Verification struct {
	ID             string            `gorm:"primaryKey;size:64" json:"id"`
	CustomerID     string            `gorm:"size:64;not null;index" json:"customer_id"`
	UserReference  string            `gorm:"size:128;not null" json:"user_reference"`
	IDType         string            `gorm:"size:32;not null" json:"id_type"`
	Status         string            `gorm:"size:16;not null" json:"status"`
	Score          *float64          `json:"score"`
	DecisionReason *string           `gorm:"type:text" json:"decision_reason"`
	OCRData        datatypes.JSONMap `gorm:"type:json" json:"ocr_data"`
	CreatedAt      time.Time         `json:"created_at"`
	CompletedAt    *time.Time        `json:"completed_at"`
}

const (
	// StatusPending indicates the verification is awaiting evaluation.
	StatusPending = "pending"
	// StatusApproved indicates the composite score cleared the approve threshold,
	// or an administrator approved manually.
	StatusApproved = "approved"
	// StatusRejected indicates the composite score fell at or below the reject
	// threshold, or an administrator rejected manually.
	StatusRejected = "rejected"
	// StatusReview indicates the composite score landed between the thresholds.
	StatusReview = "review"
)

// IsDecided reports whether an automatic or manual decision has been recorded.
func (v Verification) IsDecided() bool {
	return v.Status != StatusPending
}
