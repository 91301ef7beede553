package handlers

import (
	"errors"

	"nft-market-system/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the service error taxonomy to HTTP statuses. Financial
// and structural failures get distinct codes so clients can branch UX.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInsufficientFunds):
		status = fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrIneligible):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrNoSupply),
		errors.Is(err, services.ErrAlreadyMinted),
		errors.Is(err, services.ErrNotSupported):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
