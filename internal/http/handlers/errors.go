package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"expyra/internal/domain"
	applog "expyra/internal/log"
)

// respondError maps the service error taxonomy onto the JSON API surface.
// Validation and not-found errors become 4xx with a machine-readable code;
// anything else is logged and hidden behind a generic 500.
func respondError(c *fiber.Ctx, action string, err error) error {
	var (
		ve domain.ValidationError
		nf domain.NotFoundError
		cf domain.ConflictError
		it domain.InvalidTransitionError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"message": ve.Error(),
			"field":   ve.Field,
		})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": nf.Error(),
		})
	case errors.As(err, &cf):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": cf.Error(),
			"field":   cf.Field,
		})
	case errors.As(err, &it):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "invalid_transition",
			"message": it.Error(),
		})
	default:
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Something went wrong. Please try again.",
		})
	}
}

func badRequest(c *fiber.Ctx, field, reason string) error {
	return respondError(c, "", domain.ValidationError{Field: field, Reason: reason})
}

func validationErr(field, reason string) error {
	return domain.ValidationError{Field: field, Reason: reason}
}
