package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/models"
)

// ActivityTypeRepository defines persistence operations for activity types.
type ActivityTypeRepository interface {
	Create(ctx context.Context, record *models.ActivityType) error
	// ListVisible applies the visibility predicate: primitive types, plus the
	// caller's institute types when instituteID is non-empty. approvedOnly
	// further restricts to APPROVED definitions.
	ListVisible(ctx context.Context, instituteID string, approvedOnly bool) ([]models.ActivityType, error)
	GetByID(ctx context.Context, id string) (models.ActivityType, error)
	// FindByNameInScope looks up a name within its uniqueness scope: a nil
	// instituteID addresses the primitive group, otherwise the institute's own
	// group.
	FindByNameInScope(ctx context.Context, name string, instituteID *string) (models.ActivityType, error)
	Update(ctx context.Context, record *models.ActivityType) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, instituteID string) (map[string]int64, error)
}

type activityTypeRepository struct {
	db *gorm.DB
}

// NewActivityTypeRepository instantiates a GORM-backed repository.
func NewActivityTypeRepository(db *gorm.DB) ActivityTypeRepository {
	return &activityTypeRepository{db: db}
}

func (r *activityTypeRepository) Create(ctx context.Context, record *models.ActivityType) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *activityTypeRepository) ListVisible(ctx context.Context, instituteID string, approvedOnly bool) ([]models.ActivityType, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityType{})

	if instituteID != "" {
		query = query.Where("is_primitive = ? OR institute_id = ?", true, instituteID)
	} else {
		query = query.Where("is_primitive = ?", true)
	}

	if approvedOnly {
		query = query.Where("status = ?", models.StatusApproved)
	}

	var records []models.ActivityType
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *activityTypeRepository) GetByID(ctx context.Context, id string) (models.ActivityType, error) {
	var record models.ActivityType
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return models.ActivityType{}, err
	}

	return record, nil
}

func (r *activityTypeRepository) FindByNameInScope(ctx context.Context, name string, instituteID *string) (models.ActivityType, error) {
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if instituteID != nil {
		query = query.Where("institute_id = ?", *instituteID)
	} else {
		query = query.Where("institute_id IS NULL")
	}

	var record models.ActivityType
	if err := query.First(&record).Error; err != nil {
		return models.ActivityType{}, err
	}

	return record, nil
}

func (r *activityTypeRepository) Update(ctx context.Context, record *models.ActivityType) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *activityTypeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.ActivityType{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *activityTypeRepository) CountByStatus(ctx context.Context, instituteID string) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Total  int64
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.ActivityType{}).
		Select("status, COUNT(*) AS total").
		Where("is_primitive = ? OR institute_id = ?", true, instituteID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
