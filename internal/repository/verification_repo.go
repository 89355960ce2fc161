package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/infotier/verify-api/internal/models"
)

// VerificationRepository defines data operations for verification records.
type VerificationRepository interface {
	Create(ctx context.Context, verification *models.Verification) error
	GetByID(ctx context.Context, id string) (models.Verification, error)
	List(ctx context.Context) ([]models.Verification, error)
	Update(ctx context.Context, verification *models.Verification) error
}

type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository instantiates the repository.
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, verification *models.Verification) error {
	return r.db.WithContext(ctx).Create(verification).Error
}

func (r *verificationRepository) GetByID(ctx context.Context, id string) (models.Verification, error) {
	var verification models.Verification
	if err := r.db.WithContext(ctx).First(&verification, "id = ?", id).Error; err != nil {
		return models.Verification{}, err
	}

	return verification, nil
}

func (r *verificationRepository) List(ctx context.Context) ([]models.Verification, error) {
	var verifications []models.Verification
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&verifications).Error; err != nil {
		return nil, err
	}

	return verifications, nil
}

func (r *verificationRepository) Update(ctx context.Context, verification *models.Verification) error {
	return r.db.WithContext(ctx).Save(verification).Error
}
