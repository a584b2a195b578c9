package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/authz"
	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/models"
	"github.com/campuskit/institute-api/internal/repository"
)

// ActivityReviewService runs the review workflow for submitted activity
// records: admins route each record to a faculty reviewer, the reviewer
// settles it as approved or rejected.
type ActivityReviewService interface {
	Assign(ctx context.Context, recordID string, payload dto.AssignReviewerRequest, principal authz.Principal) (dto.ActivityAssignmentResponse, error)
	AutoAssign(ctx context.Context, recordID string, principal authz.Principal) (dto.ActivityAssignmentResponse, error)
	Unassign(ctx context.Context, recordID string, principal authz.Principal) (dto.ActivityAssignmentResponse, error)
	Queue(ctx context.Context, principal authz.Principal) ([]dto.ActivityAssignmentResponse, error)
	Approve(ctx context.Context, recordID string, payload dto.ReviewDecisionRequest, principal authz.Principal) (dto.ActivityRecordResponse, error)
	Reject(ctx context.Context, recordID string, payload dto.ReviewDecisionRequest, principal authz.Principal) (dto.ActivityRecordResponse, error)
}

type activityReviewService struct {
	assignments repository.ActivityAssignmentRepository
	records     repository.ActivityRecordRepository
	faculty     repository.FacultyRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewActivityReviewService builds the review workflow service.
func NewActivityReviewService(assignments repository.ActivityAssignmentRepository, records repository.ActivityRecordRepository, faculty repository.FacultyRepository, validate *validator.Validate, logger zerolog.Logger) ActivityReviewService {
	return &activityReviewService{
		assignments: assignments,
		records:     records,
		faculty:     faculty,
		validator:   validate,
		logger:      logger.With().Str("component", "activity_review_service").Logger(),
	}
}

// Assign puts a faculty member in charge of a record's review. Reassignment
// overwrites the previous reviewer.
func (s *activityReviewService) Assign(ctx context.Context, recordID string, payload dto.AssignReviewerRequest, principal authz.Principal) (dto.ActivityAssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityAssignmentResponse{}, err
	}

	assignment, err := s.adminAssignment(ctx, recordID, principal)
	if err != nil {
		return dto.ActivityAssignmentResponse{}, err
	}

	reviewer, err := s.instituteFaculty(ctx, payload.FacultyID, assignment.InstituteID)
	if err != nil {
		return dto.ActivityAssignmentResponse{}, err
	}

	assignment.FacultyID = &reviewer.ID
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.ActivityAssignmentResponse{}, err
	}

	s.logger.Info().
		Str("record_id", recordID).
		Str("faculty_id", reviewer.ID).
		Msg("reviewer assigned")

	return dto.NewActivityAssignmentResponse(assignment), nil
}

// AutoAssign picks the faculty member with the fewest open assignments in the
// record's institute.
func (s *activityReviewService) AutoAssign(ctx context.Context, recordID string, principal authz.Principal) (dto.ActivityAssignmentResponse, error) {
	assignment, err := s.adminAssignment(ctx, recordID, principal)
	if err != nil {
		return dto.ActivityAssignmentResponse{}, err
	}
	if assignment.FacultyID != nil {
		return dto.ActivityAssignmentResponse{}, apperr.Conflict("a reviewer is already assigned to this activity")
	}

	candidates, err := s.faculty.ListByInstitute(ctx, assignment.InstituteID)
	if err != nil {
		return dto.ActivityAssignmentResponse{}, err
	}
	if len(candidates) == 0 {
		return dto.ActivityAssignmentResponse{}, apperr.InvalidInput("no faculty available for auto-assignment")
	}

	var chosen models.Faculty
	var lightest int64 = -1
	for _, candidate := range candidates {
		load, err := s.assignments.CountForFaculty(ctx, candidate.ID)
		if err != nil {
			return dto.ActivityAssignmentResponse{}, err
		}
		if lightest < 0 || load < lightest {
			chosen, lightest = candidate, load
		}
	}

	assignment.FacultyID = &chosen.ID
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.ActivityAssignmentResponse{}, err
	}

	s.logger.Info().
		Str("record_id", recordID).
		Str("faculty_id", chosen.ID).
		Msg("reviewer auto-assigned")

	return dto.NewActivityAssignmentResponse(assignment), nil
}

// Unassign clears the reviewer slot.
func (s *activityReviewService) Unassign(ctx context.Context, recordID string, principal authz.Principal) (dto.ActivityAssignmentResponse, error) {
	assignment, err := s.adminAssignment(ctx, recordID, principal)
	if err != nil {
		return dto.ActivityAssignmentResponse{}, err
	}

	assignment.FacultyID = nil
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.ActivityAssignmentResponse{}, err
	}
	return dto.NewActivityAssignmentResponse(assignment), nil
}

// Queue lists assignments visible to the caller: faculty see their own review
// queue, admins see every assignment in their institute, everyone else sees
// assignments on their own submissions.
func (s *activityReviewService) Queue(ctx context.Context, principal authz.Principal) ([]dto.ActivityAssignmentResponse, error) {
	filter := repository.ActivityAssignmentFilter{OwnerID: principal.UserID}

	switch {
	case principal.IsAdmin() && principal.HasInstitute():
		filter = repository.ActivityAssignmentFilter{InstituteID: principal.Institute()}
	case principal.IsFaculty():
		reviewer, err := s.faculty.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(principal.Email)))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []dto.ActivityAssignmentResponse{}, nil
			}
			return nil, err
		}
		filter = repository.ActivityAssignmentFilter{FacultyID: reviewer.ID}
	}

	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewActivityAssignmentResponseSlice(assignments), nil
}

func (s *activityReviewService) Approve(ctx context.Context, recordID string, payload dto.ReviewDecisionRequest, principal authz.Principal) (dto.ActivityRecordResponse, error) {
	return s.settle(ctx, recordID, payload, principal, models.RecordStatusApproved)
}

func (s *activityReviewService) Reject(ctx context.Context, recordID string, payload dto.ReviewDecisionRequest, principal authz.Principal) (dto.ActivityRecordResponse, error) {
	return s.settle(ctx, recordID, payload, principal, models.RecordStatusRejected)
}

func (s *activityReviewService) settle(ctx context.Context, recordID string, payload dto.ReviewDecisionRequest, principal authz.Principal, status string) (dto.ActivityRecordResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityRecordResponse{}, err
	}

	record, err := s.pendingRecord(ctx, recordID)
	if err != nil {
		return dto.ActivityRecordResponse{}, err
	}

	assignment, err := s.fetchAssignment(ctx, recordID)
	if err != nil {
		return dto.ActivityRecordResponse{}, err
	}
	if err := s.canReview(ctx, assignment, principal); err != nil {
		return dto.ActivityRecordResponse{}, err
	}

	record.Status = status
	record.ReviewNote = strings.TrimSpace(payload.Note)
	if err := s.records.Update(ctx, &record); err != nil {
		return dto.ActivityRecordResponse{}, err
	}

	s.logger.Info().
		Str("record_id", record.ID).
		Str("status", status).
		Msg("activity record reviewed")

	return dto.NewActivityRecordResponse(record), nil
}

// canReview admits the assigned reviewer and admins of the record's
// institute.
func (s *activityReviewService) canReview(ctx context.Context, assignment models.ActivityAssignment, principal authz.Principal) error {
	if principal.IsAdmin() {
		if assignment.InstituteID != principal.Institute() {
			return apperr.Forbidden("assignment belongs to a different institute")
		}
		return nil
	}
	if !principal.IsFaculty() || assignment.FacultyID == nil {
		return apperr.Forbidden("this activity is not assigned to you")
	}

	reviewer, err := s.faculty.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(principal.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Forbidden("this activity is not assigned to you")
		}
		return err
	}
	if reviewer.ID != *assignment.FacultyID {
		return apperr.Forbidden("this activity is not assigned to you")
	}
	return nil
}

func (s *activityReviewService) adminAssignment(ctx context.Context, recordID string, principal authz.Principal) (models.ActivityAssignment, error) {
	if !principal.IsAdmin() {
		return models.ActivityAssignment{}, apperr.Forbidden("only admins can manage review assignments")
	}

	assignment, err := s.fetchAssignment(ctx, recordID)
	if err != nil {
		return models.ActivityAssignment{}, err
	}
	if assignment.InstituteID != principal.Institute() {
		return models.ActivityAssignment{}, apperr.Forbidden("assignment belongs to a different institute")
	}
	return assignment, nil
}

func (s *activityReviewService) instituteFaculty(ctx context.Context, facultyID, instituteID string) (models.Faculty, error) {
	if _, err := uuid.Parse(facultyID); err != nil {
		return models.Faculty{}, apperr.NotFound("faculty not found")
	}

	reviewer, err := s.faculty.GetByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Faculty{}, apperr.NotFound("faculty not found")
		}
		return models.Faculty{}, err
	}
	if reviewer.InstituteID != instituteID {
		return models.Faculty{}, apperr.InvalidInput("faculty belongs to a different institute")
	}
	return reviewer, nil
}

func (s *activityReviewService) pendingRecord(ctx context.Context, recordID string) (models.ActivityRecord, error) {
	if _, err := uuid.Parse(recordID); err != nil {
		return models.ActivityRecord{}, apperr.NotFound("activity record not found")
	}

	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ActivityRecord{}, apperr.NotFound("activity record not found")
		}
		return models.ActivityRecord{}, err
	}
	if record.Status != models.RecordStatusPending {
		return models.ActivityRecord{}, apperr.Conflict("activity record has already been reviewed")
	}
	return record, nil
}

func (s *activityReviewService) fetchAssignment(ctx context.Context, recordID string) (models.ActivityAssignment, error) {
	if _, err := uuid.Parse(recordID); err != nil {
		return models.ActivityAssignment{}, apperr.NotFound("assignment not found for this activity")
	}

	assignment, err := s.assignments.GetByRecordID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ActivityAssignment{}, apperr.NotFound("assignment not found for this activity")
		}
		return models.ActivityAssignment{}, err
	}
	return assignment, nil
}
