package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/models"
)

// StudentFilter describes search options for student listings.
type StudentFilter struct {
	InstituteID string
	Search      string
	Branch      string
}

// StudentRepository defines persistence operations for student profiles.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	GetByID(ctx context.Context, id string) (models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
	CountByInstitute(ctx context.Context, instituteID string) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository instantiates a GORM-backed repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.InstituteID != "" {
		query = query.Where("institute_id = ?", filter.InstituteID)
	}
	if filter.Branch != "" {
		query = query.Where("branch = ?", filter.Branch)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var students []models.Student
	if err := query.Order("name ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Student{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepository) CountByInstitute(ctx context.Context, instituteID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Where("institute_id = ?", instituteID).Count(&count).Error
	return count, err
}
