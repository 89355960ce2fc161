package models

import "time"

// CustomerConfig carries per-customer decision policy and webhook settings.
// The verification pipeline only reads these rows; they are managed by the
// admin surface.
type CustomerConfig struct {
	CustomerID       string    `gorm:"primaryKey;size:64" json:"customer_id"`
	ApproveThreshold float64   `gorm:"not null;default:0.75" json:"approve_threshold"`
	RejectThreshold  float64   `gorm:"not null;default:0.35" json:"reject_threshold"`
	WebhookURL       *string   `gorm:"size:512" json:"webhook_url"`
	WebhookSecret    *string   `gorm:"size:128" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const (
	// DefaultApproveThreshold applies when a customer has no config row.
	DefaultApproveThreshold = 0.75
	// DefaultRejectThreshold applies when a customer has no config row.
	DefaultRejectThreshold = 0.35
)
