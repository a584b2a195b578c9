package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/service"
	"github.com/campuskit/institute-api/internal/utils"
)

// SeedHandler exposes tooling endpoints for installing the primitive
// activity-type catalogue.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/activity-types", h.activityTypes)
}

type seedActivityTypesRequest struct {
	Items []dto.ActivityTypeSeed `json:"items"`
}

func (h *SeedHandler) activityTypes(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")
	var payload seedActivityTypesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	affected, err := h.service.SeedPrimitives(c.Context(), token, payload.Items)
	if err != nil {
		return h.seedError(c, err)
	}

	return utils.SendSuccess(c, "activity types seeded", fiber.Map{"affected": affected})
}

func (h *SeedHandler) seedError(c *fiber.Ctx, err error) error {
	switch err {
	case service.ErrSeedDisabled:
		return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
	case service.ErrSeedUnauthorized:
		return utils.SendError(c, fiber.StatusForbidden, "invalid token")
	default:
		return sendDomainError(c, h.logger, err)
	}
}
