package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/service"
	"github.com/campuskit/institute-api/internal/utils"
)

// FacultyHandler wires faculty HTTP routes.
type FacultyHandler struct {
	service service.FacultyService
	logger  zerolog.Logger
}

// NewFacultyHandler constructs the handler.
func NewFacultyHandler(service service.FacultyService, logger zerolog.Logger) *FacultyHandler {
	return &FacultyHandler{
		service: service,
		logger:  logger.With().Str("component", "faculty_handler").Logger(),
	}
}

// Register attaches faculty endpoints to the router group.
func (h *FacultyHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *FacultyHandler) list(c *fiber.Ctx) error {
	members, err := h.service.List(c.Context(), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "faculty retrieved", members)
}

func (h *FacultyHandler) create(c *fiber.Ctx) error {
	var payload dto.FacultyCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.Create(c.Context(), payload, principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "faculty member added", created)
}

func (h *FacultyHandler) get(c *fiber.Ctx) error {
	member, err := h.service.Get(c.Context(), c.Params("id"), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "faculty member retrieved", member)
}

func (h *FacultyHandler) update(c *fiber.Ctx) error {
	var payload dto.FacultyUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Context(), c.Params("id"), payload, principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "faculty member updated", updated)
}

func (h *FacultyHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id"), principalFromContext(c)); err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "faculty member removed", nil)
}
