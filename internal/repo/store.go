// Package repo is the persistence boundary for photos, palettes and colors.
// Services depend on the Store interface so the upload orchestrator can be
// tested against a fake; Postgres is the real implementation.
package repo

import (
	"context"
	"errors"

	"palette-backend/internal/models"
)

var ErrNotFound = errors.New("not found")

// ListOptions narrows ListPalettes. Zero values mean "no filter".
type ListOptions struct {
	UserID     int // 0 = any user
	PublicOnly bool
	Limit      int // 0 = no limit
	Offset     int
}

type Store interface {
	CreatePhoto(ctx context.Context, userID int, imageURL string) (*models.Photo, error)
	GetPhoto(ctx context.Context, id int) (*models.Photo, error)
	DeletePhoto(ctx context.Context, id int) error
	ListUserPhotos(ctx context.Context, userID int) ([]models.PhotoWithPalette, error)

	// CreatePaletteWithColors persists the palette row and its color rows in
	// one transaction: either all rows land or none do.
	CreatePaletteWithColors(ctx context.Context, p *models.Palette, hexes []string) (*models.PaletteWithColors, error)
	GetPalette(ctx context.Context, id int) (*models.Palette, error)
	GetPaletteDetails(ctx context.Context, id int) (*models.PaletteWithColors, error)
	GetPaletteByPhoto(ctx context.Context, photoID int) (*models.PaletteWithColors, error)
	ListPalettes(ctx context.Context, opts ListOptions) ([]models.PaletteWithColors, error)
	UpdatePalette(ctx context.Context, id int, title string, isPublic bool) (*models.Palette, error)
	// DeletePaletteCascade removes the palette and its colors atomically.
	DeletePaletteCascade(ctx context.Context, id int) error
	// CountPhotoRefs reports how many palettes and colors still reference a photo.
	CountPhotoRefs(ctx context.Context, photoID int) (palettes int, colors int, err error)

	GetColor(ctx context.Context, id int) (*models.Color, error)
	UpdateColor(ctx context.Context, id int, hex string) (*models.Color, error)
}
