package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/service"
	"github.com/campuskit/institute-api/internal/utils"
)

// ActivityRecordHandler wires activity submission HTTP routes.
type ActivityRecordHandler struct {
	service service.ActivityRecordService
	logger  zerolog.Logger
}

// NewActivityRecordHandler constructs the handler.
func NewActivityRecordHandler(service service.ActivityRecordService, logger zerolog.Logger) *ActivityRecordHandler {
	return &ActivityRecordHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_record_handler").Logger(),
	}
}

// Register attaches activity record endpoints to the router group.
func (h *ActivityRecordHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ActivityRecordHandler) list(c *fiber.Ctx) error {
	records, err := h.service.List(c.Context(), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity records retrieved", records)
}

func (h *ActivityRecordHandler) create(c *fiber.Ctx) error {
	var payload dto.ActivityRecordCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.Create(c.Context(), payload, principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity record submitted", created)
}

func (h *ActivityRecordHandler) get(c *fiber.Ctx) error {
	record, err := h.service.Get(c.Context(), c.Params("id"), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity record retrieved", record)
}

func (h *ActivityRecordHandler) update(c *fiber.Ctx) error {
	var payload dto.ActivityRecordUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Context(), c.Params("id"), payload, principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity record updated", updated)
}

func (h *ActivityRecordHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id"), principalFromContext(c)); err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity record deleted", nil)
}
