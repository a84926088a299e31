package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/workhive/workhive-backend/internal/models"
)

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}

// serviceError maps domain errors onto the response envelope. Validation
// errors carry their field map; everything else maps by sentinel.
func serviceError(c *fiber.Ctx, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Validation error",
			"errors":  verr.Fields,
		})
	}
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		return fail(c, status, "Internal server error")
	}
	return fail(c, status, err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrAlreadyCompleted):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidState), errors.Is(err, models.ErrInvalidTransition):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrPaymentDeclined):
		return fiber.StatusPaymentRequired
	default:
		return fiber.StatusInternalServerError
	}
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}
