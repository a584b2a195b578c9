package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/service"
	"github.com/campuskit/institute-api/internal/utils"
)

// ProgramHandler wires academic program HTTP routes.
type ProgramHandler struct {
	service service.ProgramService
	logger  zerolog.Logger
}

// NewProgramHandler constructs the handler.
func NewProgramHandler(service service.ProgramService, logger zerolog.Logger) *ProgramHandler {
	return &ProgramHandler{
		service: service,
		logger:  logger.With().Str("component", "program_handler").Logger(),
	}
}

// Register attaches program endpoints to the router group.
func (h *ProgramHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ProgramHandler) list(c *fiber.Ctx) error {
	programs, err := h.service.List(c.Context(), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "programs retrieved", programs)
}

func (h *ProgramHandler) create(c *fiber.Ctx) error {
	var payload dto.ProgramCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.Create(c.Context(), payload, principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "program created", created)
}

func (h *ProgramHandler) get(c *fiber.Ctx) error {
	program, err := h.service.Get(c.Context(), c.Params("id"), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "program retrieved", program)
}

func (h *ProgramHandler) update(c *fiber.Ctx) error {
	var payload dto.ProgramUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Context(), c.Params("id"), payload, principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "program updated", updated)
}

func (h *ProgramHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id"), principalFromContext(c)); err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "program deleted", nil)
}
