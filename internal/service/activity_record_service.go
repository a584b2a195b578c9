package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/authz"
	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/forms"
	"github.com/campuskit/institute-api/internal/models"
	"github.com/campuskit/institute-api/internal/repository"
)

// ActivityRecordService manages structured activity submissions. A record is
// validated against its activity type's form schema and credit range at
// creation and on every revision.
type ActivityRecordService interface {
	Create(ctx context.Context, payload dto.ActivityRecordCreateRequest, principal authz.Principal) (dto.ActivityRecordResponse, error)
	List(ctx context.Context, principal authz.Principal) ([]dto.ActivityRecordResponse, error)
	Get(ctx context.Context, id string, principal authz.Principal) (dto.ActivityRecordResponse, error)
	Update(ctx context.Context, id string, payload dto.ActivityRecordUpdateRequest, principal authz.Principal) (dto.ActivityRecordResponse, error)
	Delete(ctx context.Context, id string, principal authz.Principal) error
}

type activityRecordService struct {
	records     repository.ActivityRecordRepository
	types       repository.ActivityTypeRepository
	assignments repository.ActivityAssignmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewActivityRecordService builds the activity submission service. Every
// submission opens a review assignment alongside the record.
func NewActivityRecordService(records repository.ActivityRecordRepository, types repository.ActivityTypeRepository, assignments repository.ActivityAssignmentRepository, validate *validator.Validate, logger zerolog.Logger) ActivityRecordService {
	return &activityRecordService{
		records:     records,
		types:       types,
		assignments: assignments,
		validator:   validate,
		logger:      logger.With().Str("component", "activity_record_service").Logger(),
	}
}

func (s *activityRecordService) Create(ctx context.Context, payload dto.ActivityRecordCreateRequest, principal authz.Principal) (dto.ActivityRecordResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityRecordResponse{}, err
	}
	if !principal.HasInstitute() {
		return dto.ActivityRecordResponse{}, apperr.Forbidden("an institute affiliation is required to submit activities")
	}

	activityType, err := s.usableType(ctx, payload.ActivityTypeID, principal)
	if err != nil {
		return dto.ActivityRecordResponse{}, err
	}

	if err := s.checkSubmission(activityType, payload.Credits, payload.Details); err != nil {
		return dto.ActivityRecordResponse{}, err
	}

	record := models.ActivityRecord{
		Title:          strings.TrimSpace(payload.Title),
		ActivityTypeID: activityType.ID,
		OwnerID:        principal.UserID,
		InstituteID:    principal.Institute(),
		Credits:        payload.Credits,
		Details:        datatypes.JSONMap(payload.Details),
		Status:         models.RecordStatusPending,
	}

	if err := s.records.Create(ctx, &record); err != nil {
		return dto.ActivityRecordResponse{}, err
	}

	// The review assignment opens unassigned; an admin picks the reviewer.
	assignment := models.ActivityAssignment{
		ActivityRecordID: record.ID,
		OwnerID:          record.OwnerID,
		InstituteID:      record.InstituteID,
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.ActivityRecordResponse{}, err
	}

	s.logger.Info().
		Str("record_id", record.ID).
		Str("activity_type_id", activityType.ID).
		Msg("activity record submitted")

	return dto.NewActivityRecordResponse(record), nil
}

// List returns the caller's own records. Admins see every record submitted in
// their institute.
func (s *activityRecordService) List(ctx context.Context, principal authz.Principal) ([]dto.ActivityRecordResponse, error) {
	filter := repository.ActivityRecordFilter{OwnerID: principal.UserID}
	if principal.IsAdmin() && principal.HasInstitute() {
		filter = repository.ActivityRecordFilter{InstituteID: principal.Institute()}
	}

	records, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewActivityRecordResponseSlice(records), nil
}

func (s *activityRecordService) Get(ctx context.Context, id string, principal authz.Principal) (dto.ActivityRecordResponse, error) {
	record, err := s.fetch(ctx, id)
	if err != nil {
		return dto.ActivityRecordResponse{}, err
	}
	if err := s.canAccess(record, principal); err != nil {
		return dto.ActivityRecordResponse{}, err
	}
	return dto.NewActivityRecordResponse(record), nil
}

func (s *activityRecordService) Update(ctx context.Context, id string, payload dto.ActivityRecordUpdateRequest, principal authz.Principal) (dto.ActivityRecordResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityRecordResponse{}, err
	}

	record, err := s.fetch(ctx, id)
	if err != nil {
		return dto.ActivityRecordResponse{}, err
	}
	if record.OwnerID != principal.UserID {
		return dto.ActivityRecordResponse{}, apperr.Forbidden("only the owner can revise an activity record")
	}
	if record.Status != models.RecordStatusPending {
		return dto.ActivityRecordResponse{}, apperr.Conflict("a reviewed activity record cannot be revised")
	}

	activityType, err := s.types.GetByID(ctx, record.ActivityTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityRecordResponse{}, apperr.NotFound("activity type not found")
		}
		return dto.ActivityRecordResponse{}, err
	}

	credits := record.Credits
	if payload.Credits != nil {
		credits = *payload.Credits
	}
	details := map[string]interface{}(record.Details)
	if payload.Details != nil {
		details = payload.Details
	}

	if err := s.checkSubmission(activityType, credits, details); err != nil {
		return dto.ActivityRecordResponse{}, err
	}

	if payload.Title != nil {
		record.Title = strings.TrimSpace(*payload.Title)
	}
	record.Credits = credits
	record.Details = datatypes.JSONMap(details)

	if err := s.records.Update(ctx, &record); err != nil {
		return dto.ActivityRecordResponse{}, err
	}
	return dto.NewActivityRecordResponse(record), nil
}

func (s *activityRecordService) Delete(ctx context.Context, id string, principal authz.Principal) error {
	record, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if record.OwnerID != principal.UserID && !(principal.IsAdmin() && record.InstituteID == principal.Institute()) {
		return apperr.Forbidden("only the owner or an institute admin can delete an activity record")
	}

	if err := s.records.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("activity record not found")
		}
		return err
	}
	if err := s.assignments.DeleteByRecordID(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("record_id", id).Msg("activity record deleted")
	return nil
}

// usableType resolves an activity type the principal may submit against. The
// type must be visible to the principal and APPROVED.
func (s *activityRecordService) usableType(ctx context.Context, id string, principal authz.Principal) (models.ActivityType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.ActivityType{}, apperr.NotFound("activity type not found")
	}

	activityType, err := s.types.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ActivityType{}, apperr.NotFound("activity type not found")
		}
		return models.ActivityType{}, err
	}

	if err := authz.CanViewType(activityType, principal); err != nil {
		return models.ActivityType{}, err
	}
	if activityType.Status != models.StatusApproved {
		return models.ActivityType{}, apperr.InvalidInput("activity type %q is not approved for submissions", activityType.Name)
	}
	return activityType, nil
}

func (s *activityRecordService) checkSubmission(activityType models.ActivityType, credits float64, details map[string]interface{}) error {
	if credits < activityType.MinCredit || credits > activityType.MaxCredit {
		return apperr.InvalidInput("credits must be between %g and %g", activityType.MinCredit, activityType.MaxCredit)
	}

	fields, err := activityType.Schema()
	if err != nil {
		return err
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	if err := forms.ValidateValues(fields, details); err != nil {
		return apperr.InvalidInput("%s", err.Error())
	}
	return nil
}

func (s *activityRecordService) canAccess(record models.ActivityRecord, principal authz.Principal) error {
	if record.OwnerID == principal.UserID {
		return nil
	}
	if principal.IsAdmin() && record.InstituteID == principal.Institute() {
		return nil
	}
	return apperr.Forbidden("activity record belongs to another user")
}

func (s *activityRecordService) fetch(ctx context.Context, id string) (models.ActivityRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.ActivityRecord{}, apperr.NotFound("activity record not found")
	}

	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ActivityRecord{}, apperr.NotFound("activity record not found")
		}
		return models.ActivityRecord{}, err
	}
	return record, nil
}
