package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/authz"
	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/models"
	"github.com/campuskit/institute-api/internal/repository"
)

// ProgramService manages academic programs within the caller's institute.
// Program names are unique per institute.
type ProgramService interface {
	Create(ctx context.Context, payload dto.ProgramCreateRequest, principal authz.Principal) (dto.ProgramResponse, error)
	List(ctx context.Context, principal authz.Principal) ([]dto.ProgramResponse, error)
	Get(ctx context.Context, id string, principal authz.Principal) (dto.ProgramResponse, error)
	Update(ctx context.Context, id string, payload dto.ProgramUpdateRequest, principal authz.Principal) (dto.ProgramResponse, error)
	Delete(ctx context.Context, id string, principal authz.Principal) error
}

type programService struct {
	programs  repository.ProgramRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProgramService builds the academic program service.
func NewProgramService(programs repository.ProgramRepository, validate *validator.Validate, logger zerolog.Logger) ProgramService {
	return &programService{
		programs:  programs,
		validator: validate,
		logger:    logger.With().Str("component", "program_service").Logger(),
	}
}

func (s *programService) Create(ctx context.Context, payload dto.ProgramCreateRequest, principal authz.Principal) (dto.ProgramResponse, error) {
	if !principal.IsAdmin() {
		return dto.ProgramResponse{}, apperr.Forbidden("only admins can create programs")
	}
	if !principal.HasInstitute() {
		return dto.ProgramResponse{}, apperr.Forbidden("an institute affiliation is required to create programs")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProgramResponse{}, err
	}

	name := strings.TrimSpace(payload.Name)
	if _, err := s.programs.FindByNameInInstitute(ctx, name, principal.Institute()); err == nil {
		return dto.ProgramResponse{}, apperr.Conflict("a program named %q already exists", name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ProgramResponse{}, err
	}

	program := models.Program{
		Name:          name,
		Level:         strings.TrimSpace(payload.Level),
		Degree:        strings.TrimSpace(payload.Degree),
		DurationYears: payload.DurationYears,
		Intake:        payload.Intake,
		InstituteID:   principal.Institute(),
	}

	if err := s.programs.Create(ctx, &program); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ProgramResponse{}, apperr.Conflict("a program named %q already exists", name)
		}
		return dto.ProgramResponse{}, err
	}

	s.logger.Info().Str("program_id", program.ID).Msg("program created")

	return dto.NewProgramResponse(program), nil
}

func (s *programService) List(ctx context.Context, principal authz.Principal) ([]dto.ProgramResponse, error) {
	if !principal.HasInstitute() {
		return []dto.ProgramResponse{}, nil
	}

	programs, err := s.programs.ListByInstitute(ctx, principal.Institute())
	if err != nil {
		return nil, err
	}
	return dto.NewProgramResponseSlice(programs), nil
}

func (s *programService) Get(ctx context.Context, id string, principal authz.Principal) (dto.ProgramResponse, error) {
	program, err := s.fetch(ctx, id)
	if err != nil {
		return dto.ProgramResponse{}, err
	}
	if program.InstituteID != principal.Institute() {
		return dto.ProgramResponse{}, apperr.Forbidden("program belongs to a different institute")
	}
	return dto.NewProgramResponse(program), nil
}

func (s *programService) Update(ctx context.Context, id string, payload dto.ProgramUpdateRequest, principal authz.Principal) (dto.ProgramResponse, error) {
	if !principal.IsAdmin() {
		return dto.ProgramResponse{}, apperr.Forbidden("only admins can update programs")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProgramResponse{}, err
	}

	program, err := s.fetch(ctx, id)
	if err != nil {
		return dto.ProgramResponse{}, err
	}
	if program.InstituteID != principal.Institute() {
		return dto.ProgramResponse{}, apperr.Forbidden("program belongs to a different institute")
	}

	if payload.Name != nil {
		name := strings.TrimSpace(*payload.Name)
		if name != program.Name {
			if _, err := s.programs.FindByNameInInstitute(ctx, name, program.InstituteID); err == nil {
				return dto.ProgramResponse{}, apperr.Conflict("a program named %q already exists", name)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ProgramResponse{}, err
			}
		}
		program.Name = name
	}
	if payload.Level != nil {
		program.Level = strings.TrimSpace(*payload.Level)
	}
	if payload.Degree != nil {
		program.Degree = strings.TrimSpace(*payload.Degree)
	}
	if payload.DurationYears != nil {
		program.DurationYears = *payload.DurationYears
	}

	if err := s.programs.Update(ctx, &program); err != nil {
		return dto.ProgramResponse{}, err
	}
	return dto.NewProgramResponse(program), nil
}

func (s *programService) Delete(ctx context.Context, id string, principal authz.Principal) error {
	if !principal.IsAdmin() {
		return apperr.Forbidden("only admins can delete programs")
	}

	program, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if program.InstituteID != principal.Institute() {
		return apperr.Forbidden("program belongs to a different institute")
	}

	if err := s.programs.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("program not found")
		}
		return err
	}

	s.logger.Info().Str("program_id", id).Msg("program deleted")
	return nil
}

func (s *programService) fetch(ctx context.Context, id string) (models.Program, error) {
	program, err := s.programs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Program{}, apperr.NotFound("program not found")
		}
		return models.Program{}, err
	}
	return program, nil
}
