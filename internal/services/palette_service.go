package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"palette-backend/internal/models"
	"palette-backend/internal/palette"
	"palette-backend/internal/repo"
	"palette-backend/internal/utils"
)

const (
	DefaultExplorePageSize = 10
	MaxExplorePageSize     = 50
	duplicateTitleSuffix   = " (duplicated)"
)

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// PaletteService handles palette CRUD, duplication and the deletion cascade.
type PaletteService struct {
	store     repo.Store
	extractor palette.Extractor
}

func NewPaletteService(store repo.Store, extractor palette.Extractor) *PaletteService {
	return &PaletteService{store: store, extractor: extractor}
}

// Create extracts a fresh palette for an already uploaded photo owned by the
// caller. The photo existed before this call, so a failed extraction leaves
// it alone.
func (s *PaletteService) Create(ctx context.Context, userID int, req models.CreatePaletteRequest) (*models.PaletteWithColors, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID is missing", ErrInvalidRequest)
	}
	if req.PhotoID <= 0 {
		return nil, fmt.Errorf("%w: photo ID is required", ErrInvalidRequest)
	}

	photo, err := s.store.GetPhoto(ctx, req.PhotoID)
	if err != nil {
		return nil, err
	}
	if photo.UserID != userID {
		return nil, ErrForbidden
	}

	hexes, err := s.extractor.Extract(ctx, photo.ImageURL)
	if err == nil && len(hexes) != palette.Size {
		err = fmt.Errorf("expected %d colors, got %d", palette.Size, len(hexes))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	pal := &models.Palette{
		UserID:   userID,
		PhotoID:  photo.ID,
		Title:    defaultTitle(req.Title),
		IsPublic: utils.ParseFlexibleBool(req.IsPublic),
	}
	created, err := s.store.CreatePaletteWithColors(ctx, pal, hexes)
	if err != nil {
		return nil, err
	}
	created.Photo = photo
	return created, nil
}

func (s *PaletteService) Get(ctx context.Context, paletteID int) (*models.PaletteWithColors, error) {
	return s.store.GetPaletteDetails(ctx, paletteID)
}

func (s *PaletteService) ListUser(ctx context.Context, userID int) ([]models.PaletteWithColors, error) {
	return s.store.ListPalettes(ctx, repo.ListOptions{UserID: userID})
}

func (s *PaletteService) ListPublic(ctx context.Context) ([]models.PaletteWithColors, error) {
	return s.store.ListPalettes(ctx, repo.ListOptions{PublicOnly: true})
}

func (s *PaletteService) ListUserPublic(ctx context.Context, userID int) ([]models.PaletteWithColors, error) {
	return s.store.ListPalettes(ctx, repo.ListOptions{UserID: userID, PublicOnly: true})
}

// Explore returns the public feed, newest first, paginated.
func (s *PaletteService) Explore(ctx context.Context, page, limit int) ([]models.PaletteWithColors, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultExplorePageSize
	}
	if limit > MaxExplorePageSize {
		limit = MaxExplorePageSize
	}
	return s.store.ListPalettes(ctx, repo.ListOptions{
		PublicOnly: true,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
}

func (s *PaletteService) Update(ctx context.Context, userID, paletteID int, req models.UpdatePaletteRequest) (*models.Palette, error) {
	pal, err := s.store.GetPalette(ctx, paletteID)
	if err != nil {
		return nil, err
	}
	if pal.UserID != userID {
		return nil, ErrForbidden
	}

	title := pal.Title
	if req.Title != nil {
		title = *req.Title
	}
	isPublic := pal.IsPublic
	if req.IsPublic != nil {
		isPublic = utils.ParseFlexibleBool(req.IsPublic)
	}
	return s.store.UpdatePalette(ctx, paletteID, title, isPublic)
}

// Delete removes an owned palette and its colors, and the photo too once
// nothing references it anymore.
func (s *PaletteService) Delete(ctx context.Context, userID, paletteID int) error {
	pal, err := s.store.GetPalette(ctx, paletteID)
	if err != nil {
		return err
	}
	if pal.UserID != userID {
		return ErrForbidden
	}

	if err := s.store.DeletePaletteCascade(ctx, paletteID); err != nil {
		return err
	}

	palettes, colors, err := s.store.CountPhotoRefs(ctx, pal.PhotoID)
	if err != nil {
		return err
	}
	if palettes == 0 && colors == 0 {
		if err := s.store.DeletePhoto(ctx, pal.PhotoID); err != nil {
			return fmt.Errorf("removing unreferenced photo %d: %w", pal.PhotoID, err)
		}
		log.Printf("photo %d removed with its last palette %d", pal.PhotoID, paletteID)
	}
	return nil
}

// Duplicate copies a palette for the acting user: new photo with the same
// image URL, a private palette linked back to the original, and the five
// colors copied by value in order.
func (s *PaletteService) Duplicate(ctx context.Context, userID, paletteID int) (*models.PaletteWithColors, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID is missing", ErrInvalidRequest)
	}

	original, err := s.store.GetPaletteDetails(ctx, paletteID)
	if err != nil {
		return nil, err
	}

	newPhoto, err := s.store.CreatePhoto(ctx, userID, original.Photo.ImageURL)
	if err != nil {
		return nil, err
	}

	hexes := make([]string, 0, len(original.Colors))
	for _, c := range original.Colors {
		hexes = append(hexes, c.Hex)
	}

	originalID := original.ID
	dup := &models.Palette{
		UserID:     userID,
		PhotoID:    newPhoto.ID,
		Title:      original.Title + duplicateTitleSuffix,
		IsPublic:   false,
		OriginalID: &originalID,
	}
	created, err := s.store.CreatePaletteWithColors(ctx, dup, hexes)
	if err != nil {
		if delErr := s.store.DeletePhoto(context.WithoutCancel(ctx), newPhoto.ID); delErr != nil {
			log.Printf("compensating delete of photo %d failed: %v", newPhoto.ID, delErr)
		}
		return nil, err
	}
	created.Photo = newPhoto
	return created, nil
}

// UpdateColor changes one color of an owned palette.
func (s *PaletteService) UpdateColor(ctx context.Context, userID, colorID int, hex string) (*models.Color, error) {
	if !hexPattern.MatchString(hex) {
		return nil, fmt.Errorf("%w: hex must match #RRGGBB", ErrInvalidRequest)
	}

	color, err := s.store.GetColor(ctx, colorID)
	if err != nil {
		return nil, err
	}
	pal, err := s.store.GetPalette(ctx, color.PaletteID)
	if err != nil {
		return nil, err
	}
	if pal.UserID != userID {
		return nil, ErrForbidden
	}
	return s.store.UpdateColor(ctx, colorID, strings.ToLower(hex))
}
