package dto

import (
	"time"

	"github.com/campuskit/institute-api/internal/models"
)

// StudentCreateRequest describes the payload for enrolling a student.
type StudentCreateRequest struct {
	Name      string  `json:"name" validate:"required,min=2"`
	Email     string  `json:"email" validate:"required,email"`
	CollegeID string  `json:"college_id"`
	Branch    string  `json:"branch"`
	Year      int     `json:"year" validate:"omitempty,gte=1,lte=6"`
	ProgramID *string `json:"program_id"`
}

// StudentBulkCreateRequest enrolls many students at once.
type StudentBulkCreateRequest struct {
	Students []StudentCreateRequest `json:"students" validate:"required,min=1,dive"`
}

// StudentUpdateRequest updates academic details; nil fields are untouched.
type StudentUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2"`
	CollegeID *string `json:"college_id"`
	Branch    *string `json:"branch"`
	Year      *int    `json:"year" validate:"omitempty,gte=1,lte=6"`
	ProgramID *string `json:"program_id"`
}

// StudentResponse is the serialized student representation.
type StudentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CollegeID   string    `json:"college_id"`
	Branch      string    `json:"branch"`
	Year        int       `json:"year"`
	InstituteID string    `json:"institute_id"`
	ProgramID   string    `json:"program_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BulkCreateResult reports the outcome of a bulk enrollment.
type BulkCreateResult struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	response := StudentResponse{
		ID:          model.ID,
		Name:        model.Name,
		Email:       model.Email,
		CollegeID:   model.CollegeID,
		Branch:      model.Branch,
		Year:        model.Year,
		InstituteID: model.InstituteID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.ProgramID != nil {
		response.ProgramID = *model.ProgramID
	}
	return response
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
