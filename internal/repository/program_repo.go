package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/models"
)

// ProgramRepository defines persistence operations for academic programs.
type ProgramRepository interface {
	Create(ctx context.Context, program *models.Program) error
	ListByInstitute(ctx context.Context, instituteID string) ([]models.Program, error)
	GetByID(ctx context.Context, id string) (models.Program, error)
	FindByNameInInstitute(ctx context.Context, name, instituteID string) (models.Program, error)
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id string) error
	CountByInstitute(ctx context.Context, instituteID string) (int64, error)
}

type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository instantiates a GORM-backed repository.
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Create(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *programRepository) ListByInstitute(ctx context.Context, instituteID string) ([]models.Program, error) {
	var programs []models.Program
	err := r.db.WithContext(ctx).
		Where("institute_id = ?", instituteID).
		Order("name ASC").
		Find(&programs).Error
	if err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *programRepository) GetByID(ctx context.Context, id string) (models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).First(&program, "id = ?", id).Error; err != nil {
		return models.Program{}, err
	}
	return program, nil
}

func (r *programRepository) FindByNameInInstitute(ctx context.Context, name, instituteID string) (models.Program, error) {
	var program models.Program
	err := r.db.WithContext(ctx).
		Where("name = ? AND institute_id = ?", name, instituteID).
		First(&program).Error
	if err != nil {
		return models.Program{}, err
	}
	return program, nil
}

func (r *programRepository) Update(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Save(program).Error
}

func (r *programRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Program{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *programRepository) CountByInstitute(ctx context.Context, instituteID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Program{}).Where("institute_id = ?", instituteID).Count(&count).Error
	return count, err
}
