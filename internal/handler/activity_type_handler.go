package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/service"
	"github.com/campuskit/institute-api/internal/utils"
)

// ActivityTypeHandler wires activity-type HTTP routes.
type ActivityTypeHandler struct {
	service service.ActivityTypeService
	logger  zerolog.Logger
}

// NewActivityTypeHandler constructs the handler.
func NewActivityTypeHandler(service service.ActivityTypeService, logger zerolog.Logger) *ActivityTypeHandler {
	return &ActivityTypeHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_type_handler").Logger(),
	}
}

// Register attaches activity-type endpoints to the router group.
func (h *ActivityTypeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Post("/:id/approve", h.approve)
	router.Post("/:id/reject", h.reject)
	router.Delete("/:id", h.delete)
}

func (h *ActivityTypeHandler) list(c *fiber.Ctx) error {
	types, err := h.service.List(c.Context(), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity types retrieved", types)
}

func (h *ActivityTypeHandler) create(c *fiber.Ctx) error {
	var payload dto.ActivityTypeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.Create(c.Context(), payload, principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity type created", created)
}

func (h *ActivityTypeHandler) get(c *fiber.Ctx) error {
	record, err := h.service.Get(c.Context(), c.Params("id"), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity type retrieved", record)
}

func (h *ActivityTypeHandler) update(c *fiber.Ctx) error {
	var payload dto.ActivityTypeUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Context(), c.Params("id"), payload, principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity type updated", updated)
}

func (h *ActivityTypeHandler) approve(c *fiber.Ctx) error {
	approved, err := h.service.Approve(c.Context(), c.Params("id"), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity type approved", approved)
}

func (h *ActivityTypeHandler) reject(c *fiber.Ctx) error {
	rejected, err := h.service.Reject(c.Context(), c.Params("id"), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity type rejected", rejected)
}

func (h *ActivityTypeHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id"), principalFromContext(c)); err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity type deleted", nil)
}
