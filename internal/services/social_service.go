package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"palette-backend/internal/db"
	"palette-backend/internal/models"
	"palette-backend/internal/repo"

	"github.com/jackc/pgx/v5"
)

// SocialService covers follows, likes and comments.
type SocialService struct{}

func NewSocialService() *SocialService {
	return &SocialService{}
}

func (s *SocialService) Follow(ctx context.Context, userID, targetID int) error {
	if userID == targetID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalidRequest)
	}

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)`, userID, targetID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: already following", ErrConflict)
	}
	if isForeignKeyViolation(err) {
		return repo.ErrNotFound
	}
	return err
}

func (s *SocialService) Unfollow(ctx context.Context, userID, targetID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, userID, targetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *SocialService) Followers(ctx context.Context, userID int) ([]models.UserSummary, error) {
	query := `SELECT u.id, u.username, u.name, u.profile_photo
		FROM follows f JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1 ORDER BY f.created_at DESC`
	return s.queryUsers(ctx, query, userID)
}

func (s *SocialService) Following(ctx context.Context, userID int) ([]models.UserSummary, error) {
	query := `SELECT u.id, u.username, u.name, u.profile_photo
		FROM follows f JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1 ORDER BY f.created_at DESC`
	return s.queryUsers(ctx, query, userID)
}

func (s *SocialService) Like(ctx context.Context, userID, paletteID int) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO likes (user_id, palette_id) VALUES ($1, $2)`, userID, paletteID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: already liked", ErrConflict)
	}
	if isForeignKeyViolation(err) {
		return repo.ErrNotFound
	}
	return err
}

func (s *SocialService) Unlike(ctx context.Context, userID, paletteID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND palette_id = $2`, userID, paletteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *SocialService) AddComment(ctx context.Context, userID, paletteID int, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidRequest)
	}

	comment := &models.Comment{UserID: userID, PaletteID: paletteID, Content: content}
	query := `INSERT INTO comments (user_id, palette_id, content) VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := db.Pool.QueryRow(ctx, query, userID, paletteID, content).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if isForeignKeyViolation(err) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *SocialService) ListComments(ctx context.Context, paletteID int) ([]models.Comment, error) {
	query := `SELECT c.id, c.user_id, c.palette_id, c.content, c.created_at, c.updated_at,
			u.id, u.username, u.name, u.profile_photo
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.palette_id = $1 ORDER BY c.created_at DESC`
	rows, err := db.Pool.Query(ctx, query, paletteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var (
			c models.Comment
			u models.UserSummary
		)
		err := rows.Scan(&c.ID, &c.UserID, &c.PaletteID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&u.ID, &u.Username, &u.Name, &u.ProfilePhoto)
		if err != nil {
			return nil, err
		}
		c.User = &u
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *SocialService) UpdateComment(ctx context.Context, userID, commentID int, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidRequest)
	}

	owner, err := s.commentOwner(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, ErrForbidden
	}

	var c models.Comment
	query := `UPDATE comments SET content = $2, updated_at = now() WHERE id = $1
		RETURNING id, user_id, palette_id, content, created_at, updated_at`
	err = db.Pool.QueryRow(ctx, query, commentID, content).
		Scan(&c.ID, &c.UserID, &c.PaletteID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SocialService) DeleteComment(ctx context.Context, userID, commentID int) error {
	owner, err := s.commentOwner(ctx, commentID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}

	_, err = db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	return err
}

func (s *SocialService) commentOwner(ctx context.Context, commentID int) (int, error) {
	var owner int
	err := db.Pool.QueryRow(ctx, `SELECT user_id FROM comments WHERE id = $1`, commentID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repo.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return owner, nil
}

func (s *SocialService) queryUsers(ctx context.Context, query string, args ...interface{}) ([]models.UserSummary, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.ProfilePhoto); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
