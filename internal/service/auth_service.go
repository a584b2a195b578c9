package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/authz"
	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/models"
	"github.com/campuskit/institute-api/internal/repository"
)

// ErrInvalidCredentials indicates the email/password pair did not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles institute registration, login and session lookups.
type AuthService interface {
	RegisterInstitute(ctx context.Context, payload dto.RegisterInstituteRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Me(ctx context.Context, principal authz.Principal) (dto.UserResponse, error)
}

type authService struct {
	users      repository.UserRepository
	institutes repository.InstituteRepository
	validator  *validator.Validate
	jwtSecret  []byte
	tokenTTL   time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService builds the authentication service.
func NewAuthService(users repository.UserRepository, institutes repository.InstituteRepository, validate *validator.Validate, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		institutes: institutes,
		validator:  validate,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		logger:     logger.With().Str("component", "auth_service").Logger(),
		now:        time.Now,
	}
}

func (s *authService) RegisterInstitute(ctx context.Context, payload dto.RegisterInstituteRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return dto.AuthResponse{}, apperr.Conflict("an account with email %q already exists", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	name := strings.TrimSpace(payload.InstituteName)
	if _, err := s.institutes.GetByName(ctx, name); err == nil {
		return dto.AuthResponse{}, apperr.Conflict("institute %q is already registered", name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	institute := models.Institute{
		Name:    name,
		Email:   strings.TrimSpace(payload.InstituteEmail),
		Address: strings.TrimSpace(payload.InstituteAddress),
	}
	if err := s.institutes.Create(ctx, &institute); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, apperr.Conflict("institute %q is already registered", name)
		}
		return dto.AuthResponse{}, err
	}

	user := models.User{
		Name:         strings.TrimSpace(payload.AdminName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		InstituteID:  &institute.ID,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, apperr.Conflict("an account with email %q already exists", email)
		}
		return dto.AuthResponse{}, err
	}

	s.logger.Info().
		Str("institute_id", institute.ID).
		Str("user_id", user.ID).
		Msg("institute registered")

	return s.buildAuthResponse(user, &institute)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	var institute *models.Institute
	if user.InstituteID != nil {
		found, err := s.institutes.GetByID(ctx, *user.InstituteID)
		if err == nil {
			institute = &found
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, err
		}
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user logged in")

	return s.buildAuthResponse(user, institute)
}

func (s *authService) Me(ctx context.Context, principal authz.Principal) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, apperr.NotFound("user not found")
		}
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) buildAuthResponse(user models.User, institute *models.Institute) (dto.AuthResponse, error) {
	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	response := dto.AuthResponse{
		User:      dto.NewUserResponse(user),
		Token:     token,
		ExpiresIn: s.tokenTTL.String(),
	}
	if institute != nil {
		view := dto.NewInstituteResponse(*institute)
		response.Institute = &view
	}
	return response, nil
}

func (s *authService) issueToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	if user.InstituteID != nil {
		claims["institute_id"] = *user.InstituteID
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
