package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/authz"
	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/models"
	"github.com/campuskit/institute-api/internal/repository"
)

// DashboardService produces aggregated counts for an institute admin.
type DashboardService interface {
	GetDashboard(ctx context.Context, principal authz.Principal) (dto.DashboardResponse, error)
}

type dashboardService struct {
	types    repository.ActivityTypeRepository
	students repository.StudentRepository
	faculty  repository.FacultyRepository
	programs repository.ProgramRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService builds the dashboard aggregator. cache may be nil; the
// service then recomputes on every call.
func NewDashboardService(types repository.ActivityTypeRepository, students repository.StudentRepository, faculty repository.FacultyRepository, programs repository.ProgramRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		types:    types,
		students: students,
		faculty:  faculty,
		programs: programs,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, principal authz.Principal) (dto.DashboardResponse, error) {
	if !principal.IsAdmin() {
		return dto.DashboardResponse{}, apperr.Forbidden("only admins can view the dashboard")
	}
	if !principal.HasInstitute() {
		return dto.DashboardResponse{}, apperr.Forbidden("an institute affiliation is required to view the dashboard")
	}

	instituteID := principal.Institute()
	cacheKey := fmt.Sprintf("dashboard:institute:%s", instituteID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("institute_id", instituteID).Msg("dashboard cache hit")
				response.CacheHit = true
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	typeCounts, err := s.types.CountByStatus(ctx, instituteID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	studentCount, err := s.students.CountByInstitute(ctx, instituteID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	facultyCount, err := s.faculty.CountByInstitute(ctx, instituteID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	programCount, err := s.programs.CountByInstitute(ctx, instituteID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := dto.DashboardResponse{
		InstituteID:         instituteID,
		ActivityTypeCounts:  typeCounts,
		PendingActivityType: typeCounts[models.StatusUnderReview],
		Students:            studentCount,
		Faculty:             facultyCount,
		Programs:            programCount,
		GeneratedAt:         s.now().UTC(),
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}
