package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/authz"
	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/service"
	"github.com/campuskit/institute-api/internal/utils"
)

// ActivityReviewHandler wires the review workflow routes: reviewer
// assignment and the approve/reject decisions on submitted records.
type ActivityReviewHandler struct {
	service service.ActivityReviewService
	logger  zerolog.Logger
}

// NewActivityReviewHandler constructs the handler.
func NewActivityReviewHandler(service service.ActivityReviewService, logger zerolog.Logger) *ActivityReviewHandler {
	return &ActivityReviewHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_review_handler").Logger(),
	}
}

// Register attaches review endpoints to the activities router group.
func (h *ActivityReviewHandler) Register(router fiber.Router) {
	router.Get("/assignments", h.queue)
	router.Patch("/:id/assign", h.assign)
	router.Patch("/:id/auto-assign", h.autoAssign)
	router.Delete("/:id/assign", h.unassign)
	router.Post("/:id/approve", h.approve)
	router.Post("/:id/reject", h.reject)
}

func (h *ActivityReviewHandler) queue(c *fiber.Ctx) error {
	assignments, err := h.service.Queue(c.Context(), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *ActivityReviewHandler) assign(c *fiber.Ctx) error {
	var payload dto.AssignReviewerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	assignment, err := h.service.Assign(c.Context(), c.Params("id"), payload, principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "reviewer assigned", assignment)
}

func (h *ActivityReviewHandler) autoAssign(c *fiber.Ctx) error {
	assignment, err := h.service.AutoAssign(c.Context(), c.Params("id"), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "reviewer assigned", assignment)
}

func (h *ActivityReviewHandler) unassign(c *fiber.Ctx) error {
	assignment, err := h.service.Unassign(c.Context(), c.Params("id"), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "reviewer unassigned", assignment)
}

func (h *ActivityReviewHandler) approve(c *fiber.Ctx) error {
	return h.review(c, h.service.Approve, "activity record approved")
}

func (h *ActivityReviewHandler) reject(c *fiber.Ctx) error {
	return h.review(c, h.service.Reject, "activity record rejected")
}

func (h *ActivityReviewHandler) review(c *fiber.Ctx, decide func(ctx context.Context, id string, payload dto.ReviewDecisionRequest, principal authz.Principal) (dto.ActivityRecordResponse, error), message string) error {
	var payload dto.ReviewDecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	record, err := decide(c.Context(), c.Params("id"), payload, principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, message, record)
}
