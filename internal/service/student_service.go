package service

import (
	"context"
	"errors"
	"fmt"
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

// StudentService manages student profiles within the caller's institute.
type StudentService interface {
	Create(ctx context.Context, payload dto.StudentCreateRequest, principal authz.Principal) (dto.StudentResponse, error)
	BulkCreate(ctx context.Context, payload dto.StudentBulkCreateRequest, principal authz.Principal) (dto.BulkCreateResult, error)
	List(ctx context.Context, search, branch string, principal authz.Principal) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id string, principal authz.Principal) (dto.StudentResponse, error)
	Update(ctx context.Context, id string, payload dto.StudentUpdateRequest, principal authz.Principal) (dto.StudentResponse, error)
	Delete(ctx context.Context, id string, principal authz.Principal) error
}

type studentService struct {
	students   repository.StudentRepository
	institutes repository.InstituteRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewStudentService builds the student profile service.
func NewStudentService(students repository.StudentRepository, institutes repository.InstituteRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:   students,
		institutes: institutes,
		validator:  validate,
		logger:     logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest, principal authz.Principal) (dto.StudentResponse, error) {
	if !principal.IsAdmin() {
		return dto.StudentResponse{}, apperr.Forbidden("only admins can enroll students")
	}
	if !principal.HasInstitute() {
		return dto.StudentResponse{}, apperr.Forbidden("an institute affiliation is required to enroll students")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	exists, err := s.institutes.Exists(ctx, principal.Institute())
	if err != nil {
		return dto.StudentResponse{}, err
	}
	if !exists {
		return dto.StudentResponse{}, apperr.NotFound("institute not found")
	}

	student := models.Student{
		Name:        strings.TrimSpace(payload.Name),
		Email:       strings.ToLower(strings.TrimSpace(payload.Email)),
		CollegeID:   strings.TrimSpace(payload.CollegeID),
		Branch:      strings.TrimSpace(payload.Branch),
		Year:        payload.Year,
		InstituteID: principal.Institute(),
		ProgramID:   payload.ProgramID,
	}

	if err := s.students.Create(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, apperr.Conflict("a student with email %q already exists", student.Email)
		}
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", student.ID).Msg("student enrolled")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) BulkCreate(ctx context.Context, payload dto.StudentBulkCreateRequest, principal authz.Principal) (dto.BulkCreateResult, error) {
	if !principal.IsAdmin() {
		return dto.BulkCreateResult{}, apperr.Forbidden("only admins can enroll students")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.BulkCreateResult{}, err
	}

	result := dto.BulkCreateResult{}
	for i, entry := range payload.Students {
		if _, err := s.Create(ctx, entry, principal); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("student %d (%s): %v", i+1, entry.Email, err))
			continue
		}
		result.Created++
	}

	s.logger.Info().
		Int("created", result.Created).
		Int("failed", result.Failed).
		Msg("bulk student enrollment finished")

	return result, nil
}

func (s *studentService) List(ctx context.Context, search, branch string, principal authz.Principal) ([]dto.StudentResponse, error) {
	if !principal.HasInstitute() {
		return []dto.StudentResponse{}, nil
	}

	students, err := s.students.List(ctx, repository.StudentFilter{
		InstituteID: principal.Institute(),
		Search:      search,
		Branch:      branch,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) Get(ctx context.Context, id string, principal authz.Principal) (dto.StudentResponse, error) {
	student, err := s.fetch(ctx, id)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	if student.InstituteID != principal.Institute() {
		return dto.StudentResponse{}, apperr.Forbidden("student belongs to a different institute")
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id string, payload dto.StudentUpdateRequest, principal authz.Principal) (dto.StudentResponse, error) {
	if !principal.IsAdmin() {
		return dto.StudentResponse{}, apperr.Forbidden("only admins can update student profiles")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.fetch(ctx, id)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	if student.InstituteID != principal.Institute() {
		return dto.StudentResponse{}, apperr.Forbidden("student belongs to a different institute")
	}

	if payload.Name != nil {
		student.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.CollegeID != nil {
		student.CollegeID = strings.TrimSpace(*payload.CollegeID)
	}
	if payload.Branch != nil {
		student.Branch = strings.TrimSpace(*payload.Branch)
	}
	if payload.Year != nil {
		student.Year = *payload.Year
	}
	if payload.ProgramID != nil {
		student.ProgramID = payload.ProgramID
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id string, principal authz.Principal) error {
	if !principal.IsAdmin() {
		return apperr.Forbidden("only admins can remove students")
	}

	student, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if student.InstituteID != principal.Institute() {
		return apperr.Forbidden("student belongs to a different institute")
	}

	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("student not found")
		}
		return err
	}

	s.logger.Info().Str("student_id", id).Msg("student removed")
	return nil
}

func (s *studentService) fetch(ctx context.Context, id string) (models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, apperr.NotFound("student not found")
		}
		return models.Student{}, err
	}
	return student, nil
}
