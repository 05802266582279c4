package handlers

import (
	"io"
	"log"
	"net/http"

	"palette-backend/internal/models"
	"palette-backend/internal/services"
	"palette-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// UploadPhotoHandler runs the upload pipeline. Clients either POST a JSON body
// with an image_url, or a multipart form with a "photo" file that goes through
// object storage first.
func UploadPhotoHandler(photoService *services.PhotoService, store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)

		var req models.UploadPhotoRequest
		var storedURL string
		if fileHeader, err := c.FormFile("photo"); err == nil {
			f, err := fileHeader.Open()
			if err != nil {
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "unreadable photo file"})
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "unreadable photo file"})
			}

			url, err := store.Save(c.Context(), fileHeader.Filename, data)
			if err != nil {
				return writeError(c, err)
			}
			storedURL = url
			req.ImageURL = url
			req.Title = c.FormValue("title")
			req.IsPublic = c.FormValue("is_public")
		} else if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		photo, pal, err := photoService.Upload(c.Context(), userID, req.ImageURL, req.Title, req.IsPublic)
		if err != nil {
			// The pipeline failed, so the freshly stored object has no owner.
			if storedURL != "" {
				if rmErr := store.Remove(c.Context(), storedURL); rmErr != nil {
					log.Printf("removing stored object %s failed: %v", storedURL, rmErr)
				}
			}
			return writeError(c, err)
		}

		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"message": "Photo uploaded and palette generated successfully",
			"photo":   photo,
			"palette": pal,
		})
	}
}

// GetUserPhotosHandler lists the authenticated user's photos with palettes
func GetUserPhotosHandler(photoService *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		photos, err := photoService.GetUserPhotos(c.Context(), userID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"photos": photos})
	}
}

// GetPhotoPaletteHandler returns the hex list of one owned photo's palette
func GetPhotoPaletteHandler(photoService *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		photoID, err := c.ParamsInt("photo_id")
		if err != nil || photoID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		hexes, err := photoService.GetPhotoPalette(c.Context(), userID, photoID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"palette": hexes})
	}
}

// DeletePhotoHandler deletes an owned photo and everything extracted from it
func DeletePhotoHandler(photoService *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		photoID, err := c.ParamsInt("photo_id")
		if err != nil || photoID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		if err := photoService.DeletePhoto(c.Context(), userID, photoID); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Photo deleted successfully"})
	}
}
