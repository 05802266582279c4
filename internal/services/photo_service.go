package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"palette-backend/internal/models"
	"palette-backend/internal/palette"
	"palette-backend/internal/repo"
	"palette-backend/internal/utils"
)

// DefaultPaletteTitle is the placeholder used when the client sends no title.
const DefaultPaletteTitle = "Minha Paleta"

// PhotoService orchestrates the upload pipeline: photo row, extraction,
// palette + colors, and compensating cleanup on partial failure.
type PhotoService struct {
	store     repo.Store
	extractor palette.Extractor
}

func NewPhotoService(store repo.Store, extractor palette.Extractor) *PhotoService {
	return &PhotoService{store: store, extractor: extractor}
}

// Upload runs the full pipeline for one image URL.
//
// Ordering is strict: photo create, extract, then palette + colors in one
// transaction. If anything fails after the photo row exists, the photo is
// deleted again so no palette-less photo survives the request.
func (s *PhotoService) Upload(ctx context.Context, userID int, imageURL, title string, isPublic interface{}) (*models.Photo, *models.PaletteWithColors, error) {
	if userID <= 0 {
		return nil, nil, fmt.Errorf("%w: user ID is missing", ErrInvalidRequest)
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil, nil, fmt.Errorf("%w: no image URL provided", ErrInvalidRequest)
	}

	photo, err := s.store.CreatePhoto(ctx, userID, imageURL)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("photo %d saved for user %d", photo.ID, userID)

	hexes, err := s.extractor.Extract(ctx, photo.ImageURL)
	if err == nil && len(hexes) != palette.Size {
		err = fmt.Errorf("expected %d colors, got %d", palette.Size, len(hexes))
	}
	if err != nil {
		s.compensatePhoto(ctx, photo.ID)
		return nil, nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	pal := &models.Palette{
		UserID:   userID,
		PhotoID:  photo.ID,
		Title:    defaultTitle(title),
		IsPublic: utils.ParseFlexibleBool(isPublic),
	}
	created, err := s.store.CreatePaletteWithColors(ctx, pal, hexes)
	if err != nil {
		s.compensatePhoto(ctx, photo.ID)
		return nil, nil, err
	}
	created.Photo = photo

	log.Printf("palette %d created for photo %d", created.ID, photo.ID)
	return photo, created, nil
}

// GetUserPhotos returns the user's photos with palettes and colors joined.
func (s *PhotoService) GetUserPhotos(ctx context.Context, userID int) ([]models.PhotoWithPalette, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID is missing", ErrInvalidRequest)
	}
	return s.store.ListUserPhotos(ctx, userID)
}

// GetPhotoPalette returns the hex colors of an owned photo's palette.
func (s *PhotoService) GetPhotoPalette(ctx context.Context, userID, photoID int) ([]string, error) {
	photo, err := s.store.GetPhoto(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo.UserID != userID {
		return nil, ErrForbidden
	}

	pal, err := s.store.GetPaletteByPhoto(ctx, photoID)
	if err != nil {
		return nil, err
	}
	hexes := make([]string, 0, len(pal.Colors))
	for _, c := range pal.Colors {
		hexes = append(hexes, c.Hex)
	}
	return hexes, nil
}

// DeletePhoto removes an owned photo together with any palettes and colors
// still referencing it.
func (s *PhotoService) DeletePhoto(ctx context.Context, userID, photoID int) error {
	photo, err := s.store.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return ErrForbidden
	}

	for {
		pal, err := s.store.GetPaletteByPhoto(ctx, photoID)
		if errors.Is(err, repo.ErrNotFound) {
			break
		}
		if err != nil {
			return err
		}
		if err := s.store.DeletePaletteCascade(ctx, pal.ID); err != nil {
			return err
		}
	}
	return s.store.DeletePhoto(ctx, photoID)
}

// compensatePhoto must run even when the request context is already
// cancelled, otherwise a palette-less photo row survives.
func (s *PhotoService) compensatePhoto(ctx context.Context, photoID int) {
	if err := s.store.DeletePhoto(context.WithoutCancel(ctx), photoID); err != nil {
		log.Printf("compensating delete of photo %d failed: %v", photoID, err)
	}
}

func defaultTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultPaletteTitle
	}
	return title
}
