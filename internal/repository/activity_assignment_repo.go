package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/models"
)

// ActivityAssignmentFilter scopes assignment listings to an institute, a
// reviewer or an owner.
type ActivityAssignmentFilter struct {
	InstituteID string
	FacultyID   string
	OwnerID     string
}

// ActivityAssignmentRepository defines persistence operations for review
// assignments.
type ActivityAssignmentRepository interface {
	Create(ctx context.Context, assignment *models.ActivityAssignment) error
	GetByRecordID(ctx context.Context, recordID string) (models.ActivityAssignment, error)
	List(ctx context.Context, filter ActivityAssignmentFilter) ([]models.ActivityAssignment, error)
	Update(ctx context.Context, assignment *models.ActivityAssignment) error
	DeleteByRecordID(ctx context.Context, recordID string) error
	CountForFaculty(ctx context.Context, facultyID string) (int64, error)
}

type activityAssignmentRepository struct {
	db *gorm.DB
}

// NewActivityAssignmentRepository instantiates a GORM-backed repository.
func NewActivityAssignmentRepository(db *gorm.DB) ActivityAssignmentRepository {
	return &activityAssignmentRepository{db: db}
}

func (r *activityAssignmentRepository) Create(ctx context.Context, assignment *models.ActivityAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *activityAssignmentRepository) GetByRecordID(ctx context.Context, recordID string) (models.ActivityAssignment, error) {
	var assignment models.ActivityAssignment
	if err := r.db.WithContext(ctx).First(&assignment, "activity_record_id = ?", recordID).Error; err != nil {
		return models.ActivityAssignment{}, err
	}
	return assignment, nil
}

func (r *activityAssignmentRepository) List(ctx context.Context, filter ActivityAssignmentFilter) ([]models.ActivityAssignment, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityAssignment{})

	if filter.InstituteID != "" {
		query = query.Where("institute_id = ?", filter.InstituteID)
	}
	if filter.FacultyID != "" {
		query = query.Where("faculty_id = ?", filter.FacultyID)
	}
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}

	var assignments []models.ActivityAssignment
	if err := query.Order("created_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *activityAssignmentRepository) Update(ctx context.Context, assignment *models.ActivityAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *activityAssignmentRepository) DeleteByRecordID(ctx context.Context, recordID string) error {
	return r.db.WithContext(ctx).
		Delete(&models.ActivityAssignment{}, "activity_record_id = ?", recordID).Error
}

func (r *activityAssignmentRepository) CountForFaculty(ctx context.Context, facultyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ActivityAssignment{}).
		Where("faculty_id = ?", facultyID).
		Count(&count).Error
	return count, err
}
