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

// FacultyService manages faculty profiles within the caller's institute.
type FacultyService interface {
	Create(ctx context.Context, payload dto.FacultyCreateRequest, principal authz.Principal) (dto.FacultyResponse, error)
	List(ctx context.Context, principal authz.Principal) ([]dto.FacultyResponse, error)
	Get(ctx context.Context, id string, principal authz.Principal) (dto.FacultyResponse, error)
	Update(ctx context.Context, id string, payload dto.FacultyUpdateRequest, principal authz.Principal) (dto.FacultyResponse, error)
	Delete(ctx context.Context, id string, principal authz.Principal) error
}

type facultyService struct {
	faculty   repository.FacultyRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewFacultyService builds the faculty profile service.
func NewFacultyService(faculty repository.FacultyRepository, validate *validator.Validate, logger zerolog.Logger) FacultyService {
	return &facultyService{
		faculty:   faculty,
		validator: validate,
		logger:    logger.With().Str("component", "faculty_service").Logger(),
	}
}

func (s *facultyService) Create(ctx context.Context, payload dto.FacultyCreateRequest, principal authz.Principal) (dto.FacultyResponse, error) {
	if !principal.IsAdmin() {
		return dto.FacultyResponse{}, apperr.Forbidden("only admins can add faculty members")
	}
	if !principal.HasInstitute() {
		return dto.FacultyResponse{}, apperr.Forbidden("an institute affiliation is required to add faculty members")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyResponse{}, err
	}

	member := models.Faculty{
		Name:        strings.TrimSpace(payload.Name),
		Email:       strings.ToLower(strings.TrimSpace(payload.Email)),
		Department:  strings.TrimSpace(payload.Department),
		Designation: strings.TrimSpace(payload.Designation),
		InstituteID: principal.Institute(),
	}

	if err := s.faculty.Create(ctx, &member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.FacultyResponse{}, apperr.Conflict("a faculty member with email %q already exists", member.Email)
		}
		return dto.FacultyResponse{}, err
	}

	s.logger.Info().Str("faculty_id", member.ID).Msg("faculty member added")

	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) List(ctx context.Context, principal authz.Principal) ([]dto.FacultyResponse, error) {
	if !principal.HasInstitute() {
		return []dto.FacultyResponse{}, nil
	}

	members, err := s.faculty.ListByInstitute(ctx, principal.Institute())
	if err != nil {
		return nil, err
	}
	return dto.NewFacultyResponseSlice(members), nil
}

func (s *facultyService) Get(ctx context.Context, id string, principal authz.Principal) (dto.FacultyResponse, error) {
	member, err := s.fetch(ctx, id)
	if err != nil {
		return dto.FacultyResponse{}, err
	}
	if member.InstituteID != principal.Institute() {
		return dto.FacultyResponse{}, apperr.Forbidden("faculty member belongs to a different institute")
	}
	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) Update(ctx context.Context, id string, payload dto.FacultyUpdateRequest, principal authz.Principal) (dto.FacultyResponse, error) {
	if !principal.IsAdmin() {
		return dto.FacultyResponse{}, apperr.Forbidden("only admins can update faculty profiles")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyResponse{}, err
	}

	member, err := s.fetch(ctx, id)
	if err != nil {
		return dto.FacultyResponse{}, err
	}
	if member.InstituteID != principal.Institute() {
		return dto.FacultyResponse{}, apperr.Forbidden("faculty member belongs to a different institute")
	}

	if payload.Name != nil {
		member.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Department != nil {
		member.Department = strings.TrimSpace(*payload.Department)
	}
	if payload.Designation != nil {
		member.Designation = strings.TrimSpace(*payload.Designation)
	}

	if err := s.faculty.Update(ctx, &member); err != nil {
		return dto.FacultyResponse{}, err
	}
	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) Delete(ctx context.Context, id string, principal authz.Principal) error {
	if !principal.IsAdmin() {
		return apperr.Forbidden("only admins can remove faculty members")
	}

	member, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if member.InstituteID != principal.Institute() {
		return apperr.Forbidden("faculty member belongs to a different institute")
	}

	if err := s.faculty.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("faculty member not found")
		}
		return err
	}

	s.logger.Info().Str("faculty_id", id).Msg("faculty member removed")
	return nil
}

func (s *facultyService) fetch(ctx context.Context, id string) (models.Faculty, error) {
	member, err := s.faculty.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Faculty{}, apperr.NotFound("faculty member not found")
		}
		return models.Faculty{}, err
	}
	return member, nil
}
