package handlers

import (
	"net/http"

	"palette-backend/internal/models"
	"palette-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

func FollowHandler(socialService *services.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		targetID, err := c.ParamsInt("user_id")
		if err != nil || targetID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}

		if err := socialService.Follow(c.Context(), userID, targetID); err != nil {
			return writeError(c, err)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Followed successfully"})
	}
}

func UnfollowHandler(socialService *services.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		targetID, err := c.ParamsInt("user_id")
		if err != nil || targetID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}

		if err := socialService.Unfollow(c.Context(), userID, targetID); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(http.StatusNoContent)
	}
}

func FollowersHandler(socialService *services.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetID, err := c.ParamsInt("user_id")
		if err != nil || targetID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}

		users, err := socialService.Followers(c.Context(), targetID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"followers": users})
	}
}

func FollowingHandler(socialService *services.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetID, err := c.ParamsInt("user_id")
		if err != nil || targetID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}

		users, err := socialService.Following(c.Context(), targetID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"following": users})
	}
}

func LikePaletteHandler(socialService *services.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		paletteID, err := c.ParamsInt("palette_id")
		if err != nil || paletteID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid palette id"})
		}

		if err := socialService.Like(c.Context(), userID, paletteID); err != nil {
			return writeError(c, err)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Palette liked"})
	}
}

func UnlikePaletteHandler(socialService *services.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		paletteID, err := c.ParamsInt("palette_id")
		if err != nil || paletteID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid palette id"})
		}

		if err := socialService.Unlike(c.Context(), userID, paletteID); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(http.StatusNoContent)
	}
}

func AddCommentHandler(socialService *services.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		paletteID, err := c.ParamsInt("palette_id")
		if err != nil || paletteID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid palette id"})
		}

		var req models.CommentRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		comment, err := socialService.AddComment(c.Context(), userID, paletteID, req.Content)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{"comment": comment})
	}
}

func ListCommentsHandler(socialService *services.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		paletteID, err := c.ParamsInt("palette_id")
		if err != nil || paletteID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid palette id"})
		}

		comments, err := socialService.ListComments(c.Context(), paletteID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"comments": comments})
	}
}

func UpdateCommentHandler(socialService *services.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		commentID, err := c.ParamsInt("comment_id")
		if err != nil || commentID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid comment id"})
		}

		var req models.CommentRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		comment, err := socialService.UpdateComment(c.Context(), userID, commentID, req.Content)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"comment": comment})
	}
}

func DeleteCommentHandler(socialService *services.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		commentID, err := c.ParamsInt("comment_id")
		if err != nil || commentID <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid comment id"})
		}

		if err := socialService.DeleteComment(c.Context(), userID, commentID); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(http.StatusNoContent)
	}
}
