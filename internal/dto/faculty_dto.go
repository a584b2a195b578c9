package dto

import (
	"time"

	"github.com/campuskit/institute-api/internal/models"
)

// FacultyCreateRequest describes the payload for adding a faculty member.
type FacultyCreateRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// FacultyUpdateRequest updates profile details; nil fields are untouched.
type FacultyUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Department  *string `json:"department"`
	Designation *string `json:"designation"`
}

// FacultyResponse is the serialized faculty representation.
type FacultyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
	InstituteID string    `json:"institute_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewFacultyResponse converts a model into a DTO.
func NewFacultyResponse(model models.Faculty) FacultyResponse {
	return FacultyResponse{
		ID:          model.ID,
		Name:        model.Name,
		Email:       model.Email,
		Department:  model.Department,
		Designation: model.Designation,
		InstituteID: model.InstituteID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewFacultyResponseSlice converts a slice of models into DTOs.
func NewFacultyResponseSlice(faculty []models.Faculty) []FacultyResponse {
	responses := make([]FacultyResponse, 0, len(faculty))
	for _, member := range faculty {
		responses = append(responses, NewFacultyResponse(member))
	}
	return responses
}
