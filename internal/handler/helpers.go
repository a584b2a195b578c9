package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/authz"
	"github.com/campuskit/institute-api/internal/middleware"
	"github.com/campuskit/institute-api/internal/utils"
)

func principalFromContext(c *fiber.Ctx) authz.Principal {
	principal, _ := middleware.PrincipalFromCtx(c)
	return principal
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// sendDomainError translates service errors into HTTP responses. Validation
// failures surface per-field details; unclassified errors are logged and
// masked as 500s.
func sendDomainError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make(map[string]string, len(validationErrors))
		for _, fieldError := range validationErrors {
			details[fieldError.Field()] = fieldError.Tag()
		}
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", details)
	}

	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	}

	requestLogger(logger, c).Error().Err(err).Msg("request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
