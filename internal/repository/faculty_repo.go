package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/models"
)

// FacultyRepository defines persistence operations for faculty profiles.
type FacultyRepository interface {
	Create(ctx context.Context, faculty *models.Faculty) error
	ListByInstitute(ctx context.Context, instituteID string) ([]models.Faculty, error)
	GetByID(ctx context.Context, id string) (models.Faculty, error)
	GetByEmail(ctx context.Context, email string) (models.Faculty, error)
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id string) error
	CountByInstitute(ctx context.Context, instituteID string) (int64, error)
}

type facultyRepository struct {
	db *gorm.DB
}

// NewFacultyRepository instantiates a GORM-backed repository.
func NewFacultyRepository(db *gorm.DB) FacultyRepository {
	return &facultyRepository{db: db}
}

func (r *facultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	return r.db.WithContext(ctx).Create(faculty).Error
}

func (r *facultyRepository) ListByInstitute(ctx context.Context, instituteID string) ([]models.Faculty, error) {
	var faculty []models.Faculty
	err := r.db.WithContext(ctx).
		Where("institute_id = ?", instituteID).
		Order("name ASC").
		Find(&faculty).Error
	if err != nil {
		return nil, err
	}
	return faculty, nil
}

func (r *facultyRepository) GetByID(ctx context.Context, id string) (models.Faculty, error) {
	var faculty models.Faculty
	if err := r.db.WithContext(ctx).First(&faculty, "id = ?", id).Error; err != nil {
		return models.Faculty{}, err
	}
	return faculty, nil
}

func (r *facultyRepository) GetByEmail(ctx context.Context, email string) (models.Faculty, error) {
	var faculty models.Faculty
	if err := r.db.WithContext(ctx).First(&faculty, "email = ?", email).Error; err != nil {
		return models.Faculty{}, err
	}
	return faculty, nil
}

func (r *facultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	return r.db.WithContext(ctx).Save(faculty).Error
}

func (r *facultyRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Faculty{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *facultyRepository) CountByInstitute(ctx context.Context, instituteID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Faculty{}).Where("institute_id = ?", instituteID).Count(&count).Error
	return count, err
}
