package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/models"
)

// ActivityRecordFilter scopes record listings to an owner or an institute.
type ActivityRecordFilter struct {
	OwnerID     string
	InstituteID string
}

// ActivityRecordRepository defines persistence operations for submitted
// activity records.
type ActivityRecordRepository interface {
	Create(ctx context.Context, record *models.ActivityRecord) error
	List(ctx context.Context, filter ActivityRecordFilter) ([]models.ActivityRecord, error)
	GetByID(ctx context.Context, id string) (models.ActivityRecord, error)
	Update(ctx context.Context, record *models.ActivityRecord) error
	Delete(ctx context.Context, id string) error
}

type activityRecordRepository struct {
	db *gorm.DB
}

// NewActivityRecordRepository instantiates a GORM-backed repository.
func NewActivityRecordRepository(db *gorm.DB) ActivityRecordRepository {
	return &activityRecordRepository{db: db}
}

func (r *activityRecordRepository) Create(ctx context.Context, record *models.ActivityRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *activityRecordRepository) List(ctx context.Context, filter ActivityRecordFilter) ([]models.ActivityRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityRecord{})

	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.InstituteID != "" {
		query = query.Where("institute_id = ?", filter.InstituteID)
	}

	var records []models.ActivityRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *activityRecordRepository) GetByID(ctx context.Context, id string) (models.ActivityRecord, error) {
	var record models.ActivityRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return models.ActivityRecord{}, err
	}
	return record, nil
}

func (r *activityRecordRepository) Update(ctx context.Context, record *models.ActivityRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *activityRecordRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.ActivityRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
