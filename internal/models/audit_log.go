package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only record of an action taken on a verification.
// Entries are never updated or deleted.
type AuditLog struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	VerificationID string            `gorm:"size:64;not null;index" json:"verification_id"`
	Action         string            `gorm:"size:32;not null" json:"action"`
	Actor          string            `gorm:"size:64;not null" json:"actor"`
	Meta           datatypes.JSONMap `gorm:"type:json" json:"meta"`
	CreatedAt      time.Time         `json:"created_at"`
}

const (
	// AuditActionAutoDecision tags entries written by the evaluation pipeline.
	AuditActionAutoDecision = "auto_decision"
	// AuditActionManualApproved tags manual approvals.
	AuditActionManualApproved = "manual_approved"
	// AuditActionManualRejected tags manual rejections.
	AuditActionManualRejected = "manual_rejected"

	// ActorSystem is the actor recorded for automatic decisions.
	ActorSystem = "system"
)
