package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/forms"
	"github.com/campuskit/institute-api/internal/models"
	"github.com/campuskit/institute-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService installs the primitive activity-type catalogue. Primitives are
// created pre-approved with no owning institute so every tenant sees them.
type SeedService interface {
	SeedPrimitives(ctx context.Context, token string, items []dto.ActivityTypeSeed) (int64, error)
}

type seedService struct {
	types   repository.ActivityTypeRepository
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(types repository.ActivityTypeRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		types:   types,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

// PrimitiveCatalogue is the built-in set applied when a seed request carries
// no explicit items.
func PrimitiveCatalogue() []dto.ActivityTypeSeed {
	return []dto.ActivityTypeSeed{
		{
			Name:        "Internship",
			Description: "Industry internship completed during the academic year",
			MinCredit:   1,
			MaxCredit:   10,
			FormSchema:  json.RawMessage(`[{"key":"organization","label":"Organization","type":"text","required":true},{"key":"start_date","label":"Start Date","type":"date","required":true},{"key":"end_date","label":"End Date","type":"date","required":true}]`),
		},
		{
			Name:        "Workshop",
			Description: "Technical or professional workshop attendance",
			MinCredit:   0.5,
			MaxCredit:   4,
			FormSchema:  json.RawMessage(`[{"key":"topic","label":"Topic","type":"text","required":true},{"key":"mode","label":"Mode","type":"select","options":["online","offline"],"required":true}]`),
		},
		{
			Name:        "Certification",
			Description: "Completed professional certification",
			MinCredit:   1,
			MaxCredit:   6,
			FormSchema:  json.RawMessage(`[{"key":"provider","label":"Provider","type":"text","required":true},{"key":"credential_id","label":"Credential ID","type":"text"}]`),
		},
		{
			Name:        "Community Service",
			Description: "Volunteer or outreach work",
			MinCredit:   0.5,
			MaxCredit:   5,
			FormSchema:  json.RawMessage(`[{"key":"organization","label":"Organization","type":"text","required":true},{"key":"hours","label":"Hours","type":"number","required":true}]`),
		},
	}
}

func (s *seedService) SeedPrimitives(ctx context.Context, token string, items []dto.ActivityTypeSeed) (int64, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}
	if len(items) == 0 {
		items = PrimitiveCatalogue()
	}

	var affected int64
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return affected, apperr.InvalidInput("seed item name is required")
		}
		if item.MaxCredit < item.MinCredit {
			return affected, apperr.InvalidInput("seed item %q has max credit below min credit", name)
		}

		schema := item.FormSchema
		if len(schema) == 0 {
			schema = json.RawMessage(`[]`)
		}
		fields, err := forms.Decode(schema)
		if err != nil {
			return affected, apperr.InvalidInput("seed item %q: %s", name, err.Error())
		}
		if err := forms.Validate(fields); err != nil {
			return affected, apperr.InvalidInput("seed item %q: %s", name, err.Error())
		}

		if err := s.upsert(ctx, name, item, schema); err != nil {
			return affected, err
		}
		affected++
	}

	s.logger.Info().Int64("affected", affected).Msg("primitive catalogue seeded")
	return affected, nil
}

func (s *seedService) upsert(ctx context.Context, name string, item dto.ActivityTypeSeed, schema json.RawMessage) error {
	existing, err := s.types.FindByNameInScope(ctx, name, nil)
	if err == nil {
		existing.Description = strings.TrimSpace(item.Description)
		existing.MinCredit = item.MinCredit
		existing.MaxCredit = item.MaxCredit
		existing.FormSchema = datatypes.JSON(schema)
		return s.types.Update(ctx, &existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	record := models.ActivityType{
		Name:        name,
		Description: strings.TrimSpace(item.Description),
		IsPrimitive: true,
		FormSchema:  datatypes.JSON(schema),
		MinCredit:   item.MinCredit,
		MaxCredit:   item.MaxCredit,
		Status:      models.StatusApproved,
	}
	return s.types.Create(ctx, &record)
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	supplied := strings.TrimSpace(token)
	if len(expected) != len(supplied) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}
