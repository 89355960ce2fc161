package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/infotier/verify-api/internal/models"
)

// CustomerConfigRepository reads per-customer policy rows. The verification
// pipeline never writes these.
type CustomerConfigRepository interface {
	GetByCustomerID(ctx context.Context, customerID string) (models.CustomerConfig, error)
}

type customerConfigRepository struct {
	db *gorm.DB
}

// NewCustomerConfigRepository instantiates the repository.
func NewCustomerConfigRepository(db *gorm.DB) CustomerConfigRepository {
	return &customerConfigRepository{db: db}
}

func (r *customerConfigRepository) GetByCustomerID(ctx context.Context, customerID string) (models.CustomerConfig, error) {
	var config models.CustomerConfig
	if err := r.db.WithContext(ctx).First(&config, "customer_id = ?", customerID).Error; err != nil {
		return models.CustomerConfig{}, err
	}

	return config, nil
}
