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
	"github.com/campuskit/institute-api/internal/forms"
	"github.com/campuskit/institute-api/internal/models"
	"github.com/campuskit/institute-api/internal/repository"
)

// ActivityTypeService owns validation, visibility filtering and status
// transitions for activity-type definitions.
type ActivityTypeService interface {
	Create(ctx context.Context, payload dto.ActivityTypeCreateRequest, principal authz.Principal) (dto.ActivityTypeResponse, error)
	List(ctx context.Context, principal authz.Principal) ([]dto.ActivityTypeResponse, error)
	Get(ctx context.Context, id string, principal authz.Principal) (dto.ActivityTypeResponse, error)
	Update(ctx context.Context, id string, payload dto.ActivityTypeUpdateRequest, principal authz.Principal) (dto.ActivityTypeResponse, error)
	Approve(ctx context.Context, id string, principal authz.Principal) (dto.ActivityTypeResponse, error)
	Reject(ctx context.Context, id string, principal authz.Principal) (dto.ActivityTypeResponse, error)
	Delete(ctx context.Context, id string, principal authz.Principal) error
}

type activityTypeService struct {
	repo      repository.ActivityTypeRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewActivityTypeService builds the activity-type workflow engine.
func NewActivityTypeService(repo repository.ActivityTypeRepository, validate *validator.Validate, logger zerolog.Logger) ActivityTypeService {
	return &activityTypeService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "activity_type_service").Logger(),
	}
}

func (s *activityTypeService) Create(ctx context.Context, payload dto.ActivityTypeCreateRequest, principal authz.Principal) (dto.ActivityTypeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return dto.ActivityTypeResponse{}, apperr.InvalidInput("activity type name is required")
	}

	minCredit, maxCredit := 0.0, 0.0
	if payload.MinCredit != nil {
		minCredit = *payload.MinCredit
	}
	if payload.MaxCredit != nil {
		maxCredit = *payload.MaxCredit
	}
	if minCredit > maxCredit {
		return dto.ActivityTypeResponse{}, apperr.InvalidInput("minimum credit cannot be greater than maximum credit")
	}

	fields, err := forms.Decode(payload.FormSchema)
	if err != nil {
		return dto.ActivityTypeResponse{}, err
	}
	if err := forms.Validate(fields); err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	// Name uniqueness is scoped: primitive types form one group, each
	// institute's own types another.
	var scope *string
	if !payload.IsPrimitive && principal.HasInstitute() {
		institute := principal.Institute()
		scope = &institute
	}
	if _, err := s.repo.FindByNameInScope(ctx, name, scope); err == nil {
		return dto.ActivityTypeResponse{}, apperr.Conflict("activity type with name %q already exists", name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ActivityTypeResponse{}, err
	}

	record := models.ActivityType{
		Name:        name,
		Description: strings.TrimSpace(payload.Description),
		IsPrimitive: payload.IsPrimitive,
		MinCredit:   minCredit,
		MaxCredit:   maxCredit,
		Status:      statusForCreator(principal),
	}
	if err := record.SetSchema(fields); err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	if !payload.IsPrimitive {
		if !principal.HasInstitute() {
			return dto.ActivityTypeResponse{}, apperr.Forbidden(
				"an institute affiliation is required to create institute activity types; please log out and log back in")
		}
		institute := principal.Institute()
		record.InstituteID = &institute
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ActivityTypeResponse{}, apperr.Conflict("activity type with name %q already exists", name)
		}
		return dto.ActivityTypeResponse{}, err
	}

	s.logger.Info().
		Str("activity_type_id", record.ID).
		Str("status", record.Status).
		Bool("is_primitive", record.IsPrimitive).
		Msg("activity type created")

	return dto.NewActivityTypeResponse(record)
}

func (s *activityTypeService) List(ctx context.Context, principal authz.Principal) ([]dto.ActivityTypeResponse, error) {
	if !principal.HasInstitute() {
		s.logger.Warn().
			Str("user_id", principal.UserID).
			Str("role", principal.Role).
			Msg("principal has no institute affiliation, listing primitive types only")
	}

	records, err := s.repo.ListVisible(ctx, principal.Institute(), !principal.IsAdmin())
	if err != nil {
		return nil, err
	}

	return dto.NewActivityTypeResponseSlice(records)
}

func (s *activityTypeService) Get(ctx context.Context, id string, principal authz.Principal) (dto.ActivityTypeResponse, error) {
	record, err := s.fetch(ctx, id)
	if err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	if err := authz.CanViewType(record, principal); err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	return dto.NewActivityTypeResponse(record)
}

func (s *activityTypeService) Update(ctx context.Context, id string, payload dto.ActivityTypeUpdateRequest, principal authz.Principal) (dto.ActivityTypeResponse, error) {
	if err := validateID(id); err != nil {
		return dto.ActivityTypeResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	record, err := s.fetch(ctx, id)
	if err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	if err := authz.CanUpdateType(record, principal); err != nil {
		return dto.ActivityTypeResponse{}, err
	}
	if payload.Status != nil {
		if err := authz.CanChangeStatus(principal); err != nil {
			return dto.ActivityTypeResponse{}, err
		}
	}

	// An explicit JSON null means the caller did not send a schema; the
	// stored one stays untouched.
	if schema := strings.TrimSpace(string(payload.FormSchema)); schema != "" && schema != "null" {
		fields, err := forms.Decode(payload.FormSchema)
		if err != nil {
			return dto.ActivityTypeResponse{}, err
		}
		if err := forms.Validate(fields); err != nil {
			return dto.ActivityTypeResponse{}, err
		}
		if err := record.SetSchema(fields); err != nil {
			return dto.ActivityTypeResponse{}, err
		}
	}

	// Credits are re-validated against the merged view: patch fields
	// override, unset fields keep their prior values.
	minCredit, maxCredit := record.MinCredit, record.MaxCredit
	if payload.MinCredit != nil {
		minCredit = *payload.MinCredit
	}
	if payload.MaxCredit != nil {
		maxCredit = *payload.MaxCredit
	}
	if minCredit > maxCredit {
		return dto.ActivityTypeResponse{}, apperr.InvalidInput("minimum credit cannot be greater than maximum credit")
	}
	record.MinCredit, record.MaxCredit = minCredit, maxCredit

	if payload.Name != nil {
		name := strings.TrimSpace(*payload.Name)
		if name == "" {
			return dto.ActivityTypeResponse{}, apperr.InvalidInput("activity type name is required")
		}
		record.Name = name
	}
	if payload.Description != nil {
		record.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.Status != nil {
		record.Status = *payload.Status
	}

	if err := s.repo.Update(ctx, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ActivityTypeResponse{}, apperr.Conflict("activity type with name %q already exists", record.Name)
		}
		return dto.ActivityTypeResponse{}, err
	}

	s.logger.Info().Str("activity_type_id", record.ID).Msg("activity type updated")

	return dto.NewActivityTypeResponse(record)
}

func (s *activityTypeService) Approve(ctx context.Context, id string, principal authz.Principal) (dto.ActivityTypeResponse, error) {
	return s.moderate(ctx, id, principal, models.StatusApproved, "approve")
}

func (s *activityTypeService) Reject(ctx context.Context, id string, principal authz.Principal) (dto.ActivityTypeResponse, error) {
	return s.moderate(ctx, id, principal, models.StatusRejected, "reject")
}

func (s *activityTypeService) moderate(ctx context.Context, id string, principal authz.Principal, status, action string) (dto.ActivityTypeResponse, error) {
	if !principal.IsAdmin() {
		return dto.ActivityTypeResponse{}, apperr.Forbidden("only admins can %s activity types", action)
	}
	if err := validateID(id); err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	record, err := s.fetch(ctx, id)
	if err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	if err := authz.CanModerateType(record, principal, action); err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	record.Status = status
	if err := s.repo.Update(ctx, &record); err != nil {
		return dto.ActivityTypeResponse{}, err
	}

	s.logger.Info().
		Str("activity_type_id", record.ID).
		Str("status", status).
		Msg("activity type status changed")

	return dto.NewActivityTypeResponse(record)
}

func (s *activityTypeService) Delete(ctx context.Context, id string, principal authz.Principal) error {
	if !principal.IsAdmin() {
		return apperr.Forbidden("only admins can delete activity types")
	}
	if err := validateID(id); err != nil {
		return err
	}

	record, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}

	if err := authz.CanDeleteType(record, principal); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("activity type not found")
		}
		return err
	}

	s.logger.Info().Str("activity_type_id", id).Msg("activity type deleted")
	return nil
}

func (s *activityTypeService) fetch(ctx context.Context, id string) (models.ActivityType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.ActivityType{}, apperr.NotFound("activity type not found")
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ActivityType{}, apperr.NotFound("activity type not found")
		}
		return models.ActivityType{}, err
	}
	return record, nil
}

func statusForCreator(principal authz.Principal) string {
	if principal.IsAdmin() {
		return models.StatusApproved
	}
	return models.StatusUnderReview
}

func validateID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return apperr.InvalidInput("invalid activity type id")
	}
	return nil
}
