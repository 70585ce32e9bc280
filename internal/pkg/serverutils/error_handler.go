package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"partnerlab-agent-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware renders errors returned by handlers as the JSON
// envelope. Unknown errors become 500s and are logged.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return ctx.Status(apiErr.Status).JSON(Response{
				Success: false,
				Code:    apiErr.Status,
				Message: apiErr.Message,
				Data:    apiErr.Data,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
	}
}
