package dto

import (
	"encoding/json"
	"time"

	"github.com/campuskit/institute-api/internal/forms"
	"github.com/campuskit/institute-api/internal/models"
)

// ActivityTypeCreateRequest describes the payload for defining a new
// activity type. FormSchema stays raw until the positional validation pass
// accepts it.
type ActivityTypeCreateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	IsPrimitive bool            `json:"is_primitive"`
	FormSchema  json.RawMessage `json:"form_schema"`
	MinCredit   *float64        `json:"min_credit" validate:"omitempty,gte=0"`
	MaxCredit   *float64        `json:"max_credit" validate:"omitempty,gte=0"`
}

// ActivityTypeUpdateRequest is a partial update; nil fields keep their
// prior values.
type ActivityTypeUpdateRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	FormSchema  json.RawMessage `json:"form_schema"`
	MinCredit   *float64        `json:"min_credit" validate:"omitempty,gte=0"`
	MaxCredit   *float64        `json:"max_credit" validate:"omitempty,gte=0"`
	Status      *string         `json:"status" validate:"omitempty,oneof=APPROVED UNDER_REVIEW REJECTED"`
}

// ActivityTypeResponse is the serialized representation returned to API
// clients.
type ActivityTypeResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	IsPrimitive bool          `json:"is_primitive"`
	InstituteID string        `json:"institute_id,omitempty"`
	FormSchema  []forms.Field `json:"form_schema"`
	MinCredit   float64       `json:"min_credit"`
	MaxCredit   float64       `json:"max_credit"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewActivityTypeResponse converts a model into a DTO.
func NewActivityTypeResponse(model models.ActivityType) (ActivityTypeResponse, error) {
	fields, err := model.Schema()
	if err != nil {
		return ActivityTypeResponse{}, err
	}
	if fields == nil {
		fields = []forms.Field{}
	}

	response := ActivityTypeResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		IsPrimitive: model.IsPrimitive,
		FormSchema:  fields,
		MinCredit:   model.MinCredit,
		MaxCredit:   model.MaxCredit,
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.InstituteID != nil {
		response.InstituteID = *model.InstituteID
	}
	return response, nil
}

// NewActivityTypeResponseSlice converts a slice of models into DTOs.
func NewActivityTypeResponseSlice(records []models.ActivityType) ([]ActivityTypeResponse, error) {
	responses := make([]ActivityTypeResponse, 0, len(records))
	for _, record := range records {
		response, err := NewActivityTypeResponse(record)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}
