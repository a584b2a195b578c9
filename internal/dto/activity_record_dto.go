package dto

import (
	"time"

	"github.com/campuskit/institute-api/internal/models"
)

// ActivityRecordCreateRequest submits a structured activity against an
// approved activity type.
type ActivityRecordCreateRequest struct {
	ActivityTypeID string                 `json:"activity_type_id" validate:"required"`
	Title          string                 `json:"title" validate:"required,min=2"`
	Credits        float64                `json:"credits" validate:"gte=0"`
	Details        map[string]interface{} `json:"details"`
}

// ActivityRecordUpdateRequest revises a submitted record; nil fields are
// untouched.
type ActivityRecordUpdateRequest struct {
	Title   *string                `json:"title" validate:"omitempty,min=2"`
	Credits *float64               `json:"credits" validate:"omitempty,gte=0"`
	Details map[string]interface{} `json:"details"`
}

// ActivityRecordResponse is the serialized record representation.
type ActivityRecordResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	ActivityTypeID string                 `json:"activity_type_id"`
	OwnerID        string                 `json:"owner_id"`
	InstituteID    string                 `json:"institute_id"`
	Credits        float64                `json:"credits"`
	Details        map[string]interface{} `json:"details"`
	Status         string                 `json:"status"`
	ReviewNote     string                 `json:"review_note,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// NewActivityRecordResponse converts a model into a DTO.
func NewActivityRecordResponse(model models.ActivityRecord) ActivityRecordResponse {
	details := map[string]interface{}(model.Details)
	if details == nil {
		details = map[string]interface{}{}
	}

	return ActivityRecordResponse{
		ID:             model.ID,
		Title:          model.Title,
		ActivityTypeID: model.ActivityTypeID,
		OwnerID:        model.OwnerID,
		InstituteID:    model.InstituteID,
		Credits:        model.Credits,
		Details:        details,
		Status:         model.Status,
		ReviewNote:     model.ReviewNote,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewActivityRecordResponseSlice converts a slice of models into DTOs.
func NewActivityRecordResponseSlice(records []models.ActivityRecord) []ActivityRecordResponse {
	responses := make([]ActivityRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewActivityRecordResponse(record))
	}
	return responses
}
