package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/service"
	"github.com/campuskit/institute-api/internal/utils"
)

// AuthHandler wires authentication HTTP routes.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the public authentication endpoints.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
}

// RegisterProtected attaches endpoints that require a valid session.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/me", h.me)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterInstituteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.RegisterInstitute(c.Context(), payload)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "institute registered", response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid email or password")
		}
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.Context(), principalFromContext(c))
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "profile retrieved", user)
}
