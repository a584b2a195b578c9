package dto

import (
	"time"

	"github.com/campuskit/institute-api/internal/models"
)

// AssignReviewerRequest puts a faculty member in charge of reviewing an
// activity record.
type AssignReviewerRequest struct {
	FacultyID string `json:"faculty_id" validate:"required"`
}

// ReviewDecisionRequest settles a pending activity record. The note is kept
// on the record so the owner can see why it was rejected.
type ReviewDecisionRequest struct {
	Note string `json:"note" validate:"omitempty,max=512"`
}

// ActivityAssignmentResponse is the serialized assignment representation.
type ActivityAssignmentResponse struct {
	ID               string    `json:"id"`
	ActivityRecordID string    `json:"activity_record_id"`
	OwnerID          string    `json:"owner_id"`
	FacultyID        *string   `json:"faculty_id,omitempty"`
	InstituteID      string    `json:"institute_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewActivityAssignmentResponse converts a model into a DTO.
func NewActivityAssignmentResponse(model models.ActivityAssignment) ActivityAssignmentResponse {
	return ActivityAssignmentResponse{
		ID:               model.ID,
		ActivityRecordID: model.ActivityRecordID,
		OwnerID:          model.OwnerID,
		FacultyID:        model.FacultyID,
		InstituteID:      model.InstituteID,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewActivityAssignmentResponseSlice converts a slice of models into DTOs.
func NewActivityAssignmentResponseSlice(assignments []models.ActivityAssignment) []ActivityAssignmentResponse {
	responses := make([]ActivityAssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewActivityAssignmentResponse(assignment))
	}
	return responses
}
