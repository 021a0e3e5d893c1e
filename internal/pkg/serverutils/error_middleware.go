package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"rag-chat-be/internal/pkg/apperrors"
	"rag-chat-be/internal/pkg/logger"
)

// NewErrorHandler maps the error taxonomy onto HTTP statuses:
// validation 400, missing resource 404, upstream failure 502, bad
// configuration and everything else 500. Breaker rejections surface as 503.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": validationErr.Message})
		}

		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": notFoundErr.Error()})
		}

		if errors.Is(err, apperrors.ErrBreakerOpen) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "upstream temporarily unavailable"})
		}

		var externalErr *apperrors.ExternalServiceError
		if errors.As(err, &externalErr) {
			log.Error("http", "external service failure", map[string]interface{}{
				"path":  ctx.Path(),
				"error": externalErr.Error(),
			})
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "upstream service failed"})
		}

		var configErr *apperrors.ConfigurationError
		if errors.As(err, &configErr) {
			log.Error("http", "configuration failure", map[string]interface{}{
				"path":  ctx.Path(),
				"error": configErr.Message,
			})
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal configuration error"})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}
