package models

import "time"

type Comment struct {
	ID        int          `json:"id"`
	UserID    int          `json:"user_id"`
	PaletteID int          `json:"palette_id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	User      *UserSummary `json:"user,omitempty"`
}

type CommentRequest struct {
	Content string `json:"content"`
}
