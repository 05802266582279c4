package handlers

import (
	"io"
	"net/http"

	"palette-backend/internal/models"
	"palette-backend/internal/services"
	"palette-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetProfileHandler returns the authenticated user's profile
func GetProfileHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		u, err := userService.GetProfile(c.Context(), userID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(u)
	}
}

// UpdateProfileHandler updates name and/or username for the authenticated user
func UpdateProfileHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)

		var req models.UpdateProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		updated, err := userService.UpdateProfile(c.Context(), userID, req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(updated)
	}
}

// UploadProfilePhotoHandler stores a profile photo (multipart field "photo")
// through the object-storage boundary and saves the resulting URL
func UploadProfilePhotoHandler(userService *services.UserService, store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)

		fileHeader, err := c.FormFile("photo")
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "photo file is required"})
		}
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

		updated, err := userService.SetProfilePhoto(c.Context(), userID, url)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(updated)
	}
}

// SearchUsersHandler finds users by username substring (?q=)
func SearchUsersHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := userService.Search(c.Context(), c.Query("q"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"users": users})
	}
}

// UserStatsHandler returns palette/follower/following/like counts for a user
func UserStatsHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetID, err := c.ParamsInt("user_id")
		if err != nil || targetID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}

		stats, err := userService.Stats(c.Context(), targetID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(stats)
	}
}
