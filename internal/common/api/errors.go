package api

import (
	"errors"

	"ainews-console/internal/backend"
	"ainews-console/internal/fab"
	"ainews-console/internal/form"
	"ainews-console/internal/modal"
	"ainews-console/internal/reader"
	"ainews-console/internal/screen"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain errors onto console HTTP statuses.
func StatusFor(err error) int {
	var (
		validation *form.ValidationError
		apiErr     *backend.APIError
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, screen.ErrNotFound),
		errors.Is(err, screen.ErrUnknownAction),
		errors.Is(err, fab.ErrUnknownItem):
		return fiber.StatusNotFound
	case errors.Is(err, screen.ErrUnknownFilter),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, modal.ErrUnknownTab),
		errors.Is(err, reader.ErrEmptyComment),
		errors.Is(err, reader.ErrMissingCredentials):
		return fiber.StatusBadRequest
	case errors.Is(err, screen.ErrNoForm),
		errors.Is(err, screen.ErrNoPendingDelete),
		errors.Is(err, modal.ErrInvalidTransition),
		errors.Is(err, reader.ErrNotLoaded),
		errors.Is(err, reader.ErrInteractionPending):
		return fiber.StatusConflict
	case errors.Is(err, screen.ErrReadOnly):
		return fiber.StatusMethodNotAllowed
	case errors.Is(err, reader.ErrSignInRequired):
		return fiber.StatusUnauthorized
	case errors.As(err, &apiErr):
		if apiErr.Unauthorized() {
			return apiErr.Status
		}
		return fiber.StatusBadGateway
	case errors.Is(err, reader.ErrNoToken):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// Fail answers with {"error": ...} and the mapped status.
func Fail(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{
		"error": backend.Message(err),
	})
}
