package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/infotier/verify-api/internal/models"
)

// EvidenceRepository persists evidence rows. Evidence is immutable, so only
// create and read operations exist.
type EvidenceRepository interface {
	Create(ctx context.Context, evidence *models.Evidence) error
	ListByVerification(ctx context.Context, verificationID string) ([]models.Evidence, error)
}

type evidenceRepository struct {
	db *gorm.DB
}

// NewEvidenceRepository instantiates the repository.
func NewEvidenceRepository(db *gorm.DB) EvidenceRepository {
	return &evidenceRepository{db: db}
}

func (r *evidenceRepository) Create(ctx context.Context, evidence *models.Evidence) error {
	return r.db.WithContext(ctx).Create(evidence).Error
}

func (r *evidenceRepository) ListByVerification(ctx context.Context, verificationID string) ([]models.Evidence, error) {
	var evidence []models.Evidence
	if err := r.db.WithContext(ctx).
		Where("verification_id = ?", verificationID).
		Order("created_at ASC").
		Find(&evidence).Error; err != nil {
		return nil, err
	}

	return evidence, nil
}
