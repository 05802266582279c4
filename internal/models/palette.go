package models

import "time"

// Palette holds exactly five colors extracted from one photo.
type Palette struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	PhotoID    int       `json:"photo_id"`
	Title      string    `json:"title"`
	IsPublic   bool      `json:"is_public"`
	OriginalID *int      `json:"original_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PaletteWithColors is a palette with its colors and optional joins.
type PaletteWithColors struct {
	Palette
	Colors []Color      `json:"colors"`
	Photo  *Photo       `json:"photo,omitempty"`
	User   *UserSummary `json:"user,omitempty"`
}

type CreatePaletteRequest struct {
	PhotoID  int         `json:"photo_id"`
	Title    string      `json:"title"`
	IsPublic interface{} `json:"is_public"`
}

// UpdatePaletteRequest uses pointers/interface so "absent" and "set to zero
// value" can be told apart.
type UpdatePaletteRequest struct {
	Title    *string     `json:"title"`
	IsPublic interface{} `json:"is_public"`
}
