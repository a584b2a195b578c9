package dto

import (
	"time"

	"github.com/campuskit/institute-api/internal/models"
)

// ProgramCreateRequest describes the payload for adding an academic program.
type ProgramCreateRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	Level         string `json:"level"`
	Degree        string `json:"degree"`
	DurationYears int    `json:"duration_years" validate:"omitempty,gte=1,lte=10"`
	Intake        int    `json:"intake" validate:"omitempty,gte=1"`
}

// ProgramUpdateRequest updates program details; nil fields are untouched.
type ProgramUpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=2"`
	Level         *string `json:"level"`
	Degree        *string `json:"degree"`
	DurationYears *int    `json:"duration_years" validate:"omitempty,gte=1,lte=10"`
}

// ProgramResponse is the serialized program representation.
type ProgramResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Level         string    `json:"level"`
	Degree        string    `json:"degree"`
	DurationYears int       `json:"duration_years"`
	Intake        int       `json:"intake"`
	InstituteID   string    `json:"institute_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewProgramResponse converts a model into a DTO.
func NewProgramResponse(model models.Program) ProgramResponse {
	return ProgramResponse{
		ID:            model.ID,
		Name:          model.Name,
		Level:         model.Level,
		Degree:        model.Degree,
		DurationYears: model.DurationYears,
		Intake:        model.Intake,
		InstituteID:   model.InstituteID,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewProgramResponseSlice converts a slice of models into DTOs.
func NewProgramResponseSlice(programs []models.Program) []ProgramResponse {
	responses := make([]ProgramResponse, 0, len(programs))
	for _, program := range programs {
		responses = append(responses, NewProgramResponse(program))
	}
	return responses
}
