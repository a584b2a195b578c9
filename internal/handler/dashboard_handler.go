package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/service"
	"github.com/campuskit/institute-api/internal/utils"
)

// DashboardHandler wires the admin dashboard route.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoint to the router group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.dashboard)
}

func (h *DashboardHandler) dashboard(c *fiber.Ctx) error {
	response, err := h.service.GetDashboard(c.Context(), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", response)
}
