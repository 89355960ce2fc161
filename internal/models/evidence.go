package models

import "time"

// Evidence is one stored file (document image or selfie) attached to a
// verification. Rows are immutable once created; the checksum is computed over
// the raw bytes before they are written to object storage, so a mismatch on a
// later read indicates store corruption.
type Evidence struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	VerificationID string    `gorm:"size:64;not null;index" json:"verification_id"`
	StorageKey     string    `gorm:"size:256;not null" json:"storage_key"`
	Mime           string    `gorm:"size:128;not null" json:"mime"`
	Checksum       string    `gorm:"size:64;not null" json:"checksum"`
	CreatedAt      time.Time `json:"created_at"`
}
