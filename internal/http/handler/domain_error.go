package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"notestand/internal/render"
	"notestand/internal/service"
)

// domainError translates core error taxonomy into the standardized error
// envelope. Policy denials, money failures, and infrastructure failures map
// to distinct codes so clients can present accurate messaging.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrAccessDenied), errors.Is(err, render.ErrDenied):
		return writeError(c, fiber.StatusForbidden, "ACCESS_DENIED", "access denied")
	case errors.Is(err, service.ErrInvalidAmount):
		return writeError(c, fiber.StatusBadRequest, "INVALID_AMOUNT", "amount must be positive")
	case errors.Is(err, service.ErrNotPurchasable):
		return writeError(c, fiber.StatusConflict, "NOT_PURCHASABLE", "document cannot be purchased in its current state")
	case errors.Is(err, service.ErrInvalidTransition):
		return writeError(c, fiber.StatusConflict, "INVALID_TRANSITION", "illegal status transition")
	case errors.Is(err, service.ErrRetrieval):
		return writeError(c, fiber.StatusBadGateway, "RETRIEVAL_FAILED", "document retrieval failed, try again")
	case errors.Is(err, render.ErrMalformed):
		return writeError(c, fiber.StatusUnprocessableEntity, "MALFORMED_DOCUMENT", "document cannot be rendered")
	case errors.Is(err, render.ErrNoProtectedVariant):
		return writeError(c, fiber.StatusForbidden, "NO_PROTECTED_VARIANT", "format has no preview variant")
	case errors.Is(err, render.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", "unsupported document format")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
