package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/models"
)

// InstituteRepository defines persistence operations for institutes.
type InstituteRepository interface {
	Create(ctx context.Context, institute *models.Institute) error
	GetByID(ctx context.Context, id string) (models.Institute, error)
	GetByName(ctx context.Context, name string) (models.Institute, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type instituteRepository struct {
	db *gorm.DB
}

// NewInstituteRepository instantiates a GORM-backed repository.
func NewInstituteRepository(db *gorm.DB) InstituteRepository {
	return &instituteRepository{db: db}
}

func (r *instituteRepository) Create(ctx context.Context, institute *models.Institute) error {
	return r.db.WithContext(ctx).Create(institute).Error
}

func (r *instituteRepository) GetByID(ctx context.Context, id string) (models.Institute, error) {
	var institute models.Institute
	if err := r.db.WithContext(ctx).First(&institute, "id = ?", id).Error; err != nil {
		return models.Institute{}, err
	}
	return institute, nil
}

func (r *instituteRepository) GetByName(ctx context.Context, name string) (models.Institute, error) {
	var institute models.Institute
	if err := r.db.WithContext(ctx).First(&institute, "name = ?", name).Error; err != nil {
		return models.Institute{}, err
	}
	return institute, nil
}

func (r *instituteRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Institute{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
