package handlers

import (
	"errors"
	"net/http"

	"palette-backend/internal/repo"
	"palette-backend/internal/services"
	"palette-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// writeError translates pipeline and service errors into HTTP responses.
// Handlers stay thin; the taxonomy lives with the services.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUserExists):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repo.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrExtraction):
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": services.ErrExtraction.Error()})
	case errors.Is(err, storage.ErrUpload):
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": storage.ErrUpload.Error()})
	default:
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
