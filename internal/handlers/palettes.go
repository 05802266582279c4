package handlers

import (
	"net/http"

	"palette-backend/internal/models"
	"palette-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CreatePaletteHandler extracts a fresh palette for an existing photo
func CreatePaletteHandler(paletteService *services.PaletteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)

		var req models.CreatePaletteRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		pal, err := paletteService.Create(c.Context(), userID, req)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"message": "Palette created successfully",
			"palette": pal,
		})
	}
}

// GetPaletteHandler returns one palette with photo, colors and owner joined
func GetPaletteHandler(paletteService *services.PaletteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		paletteID, err := c.ParamsInt("palette_id")
		if err != nil || paletteID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid palette id"})
		}

		pal, err := paletteService.Get(c.Context(), paletteID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"palette": pal})
	}
}

// MyPalettesHandler lists all palettes of the authenticated user
func MyPalettesHandler(paletteService *services.PaletteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		palettes, err := paletteService.ListUser(c.Context(), userID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"palettes": palettes})
	}
}

// PublicPalettesHandler lists every public palette
func PublicPalettesHandler(paletteService *services.PaletteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		palettes, err := paletteService.ListPublic(c.Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"palettes": palettes})
	}
}

// UserPublicPalettesHandler lists one user's public palettes
func UserPublicPalettesHandler(paletteService *services.PaletteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetID, err := c.ParamsInt("user_id")
		if err != nil || targetID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}

		palettes, err := paletteService.ListUserPublic(c.Context(), targetID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"palettes": palettes})
	}
}

// ExplorePalettesHandler is the paginated public feed, newest first
func ExplorePalettesHandler(paletteService *services.PaletteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", services.DefaultExplorePageSize)

		palettes, err := paletteService.Explore(c.Context(), page, limit)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"palettes": palettes})
	}
}

// UpdatePaletteHandler changes title and/or visibility of an owned palette
func UpdatePaletteHandler(paletteService *services.PaletteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		paletteID, err := c.ParamsInt("palette_id")
		if err != nil || paletteID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid palette id"})
		}

		var req models.UpdatePaletteRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		pal, err := paletteService.Update(c.Context(), userID, paletteID, req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"message": "Palette updated successfully",
			"palette": pal,
		})
	}
}

// DeletePaletteHandler deletes an owned palette; the photo goes with it when
// nothing references it anymore
func DeletePaletteHandler(paletteService *services.PaletteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		paletteID, err := c.ParamsInt("palette_id")
		if err != nil || paletteID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid palette id"})
		}

		if err := paletteService.Delete(c.Context(), userID, paletteID); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Palette deleted successfully"})
	}
}

// DuplicatePaletteHandler copies a palette (and its photo) to the acting user
func DuplicatePaletteHandler(paletteService *services.PaletteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		paletteID, err := c.ParamsInt("palette_id")
		if err != nil || paletteID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid palette id"})
		}

		dup, err := paletteService.Duplicate(c.Context(), userID, paletteID)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"message": "Palette duplicated successfully",
			"palette": dup,
		})
	}
}

// UpdateColorHandler changes one color of an owned palette
func UpdateColorHandler(paletteService *services.PaletteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		colorID, err := c.ParamsInt("color_id")
		if err != nil || colorID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid color id"})
		}

		var req models.UpdateColorRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		color, err := paletteService.UpdateColor(c.Context(), userID, colorID, req.Hex)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"color": color})
	}
}
