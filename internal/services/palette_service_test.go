package services

import (
	"context"
	"testing"

	"palette-backend/internal/models"
	"palette-backend/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPalette uploads one photo+palette for userID and returns both.
func seedPalette(t *testing.T, store *fakeStore, userID int, isPublic bool) (*models.Photo, *models.PaletteWithColors) {
	t.Helper()
	svc := NewPhotoService(store, &fakeExtractor{colors: fiveColors})
	photo, pal, err := svc.Upload(context.Background(), userID, "https://example.com/seed.jpg", "Original", isPublic)
	require.NoError(t, err)
	return photo, pal
}

func TestCreatePaletteForExistingPhoto(t *testing.T) {
	store := newFakeStore()
	photo, err := store.CreatePhoto(context.Background(), 7, "https://example.com/cat.jpg")
	require.NoError(t, err)

	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors})
	pal, err := svc.Create(context.Background(), 7, models.CreatePaletteRequest{PhotoID: photo.ID, Title: "Mood", IsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, "Mood", pal.Title)
	assert.True(t, pal.IsPublic)
	require.Len(t, pal.Colors, 5)
}

func TestCreatePaletteForeignPhoto(t *testing.T) {
	store := newFakeStore()
	photo, err := store.CreatePhoto(context.Background(), 7, "https://example.com/cat.jpg")
	require.NoError(t, err)

	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors})
	_, err = svc.Create(context.Background(), 99, models.CreatePaletteRequest{PhotoID: photo.ID})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreatePaletteUnknownPhoto(t *testing.T) {
	svc := NewPaletteService(newFakeStore(), &fakeExtractor{colors: fiveColors})
	_, err := svc.Create(context.Background(), 7, models.CreatePaletteRequest{PhotoID: 12345})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestCreatePaletteExtractionFailureKeepsPhoto(t *testing.T) {
	store := newFakeStore()
	photo, err := store.CreatePhoto(context.Background(), 7, "https://example.com/cat.jpg")
	require.NoError(t, err)

	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors[:2]})
	_, err = svc.Create(context.Background(), 7, models.CreatePaletteRequest{PhotoID: photo.ID})
	assert.ErrorIs(t, err, ErrExtraction)
	assert.Contains(t, store.photos, photo.ID, "pre-existing photo must survive a failed extraction")
}

func TestDuplicatePalette(t *testing.T) {
	store := newFakeStore()
	origPhoto, orig := seedPalette(t, store, 7, true)

	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors})
	dup, err := svc.Duplicate(context.Background(), 42, orig.ID)
	require.NoError(t, err)

	assert.NotEqual(t, orig.ID, dup.ID)
	assert.NotEqual(t, origPhoto.ID, dup.PhotoID)
	assert.Equal(t, origPhoto.ImageURL, dup.Photo.ImageURL)
	assert.Equal(t, "Original (duplicated)", dup.Title)
	assert.False(t, dup.IsPublic, "duplicates are always private")
	require.NotNil(t, dup.OriginalID)
	assert.Equal(t, orig.ID, *dup.OriginalID)
	assert.Equal(t, 42, dup.UserID)

	require.Len(t, dup.Colors, 5)
	for i := range dup.Colors {
		assert.Equal(t, orig.Colors[i].Hex, dup.Colors[i].Hex)
		assert.NotEqual(t, orig.Colors[i].ID, dup.Colors[i].ID)
	}
}

func TestDuplicateFailureCompensatesPhoto(t *testing.T) {
	store := newFakeStore()
	_, orig := seedPalette(t, store, 7, true)

	store.failCreatePalette = true
	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors})
	_, err := svc.Duplicate(context.Background(), 42, orig.ID)
	require.Error(t, err)
	assert.Len(t, store.photos, 1, "the duplicated photo must be rolled back")
}

func TestDuplicateCompensatesWhenRequestContextCancelled(t *testing.T) {
	store := newFakeStore()
	_, orig := seedPalette(t, store, 7, true)

	store.failCreatePalette = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors})
	_, err := svc.Duplicate(ctx, 42, orig.ID)
	require.Error(t, err)
	assert.Len(t, store.photos, 1, "duplicated photo must be rolled back despite cancellation")
}

func TestDeleteLastPaletteRemovesPhoto(t *testing.T) {
	store := newFakeStore()
	photo, pal := seedPalette(t, store, 7, false)

	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors})
	require.NoError(t, svc.Delete(context.Background(), 7, pal.ID))

	assert.NotContains(t, store.palettes, pal.ID)
	assert.NotContains(t, store.photos, photo.ID, "last palette gone, photo must go too")
}

func TestDeleteNonLastPaletteKeepsPhoto(t *testing.T) {
	store := newFakeStore()
	photo, pal := seedPalette(t, store, 7, false)

	// A second palette referencing the same photo.
	second, err := store.CreatePaletteWithColors(context.Background(),
		&models.Palette{UserID: 7, PhotoID: photo.ID, Title: "Second"}, fiveColors)
	require.NoError(t, err)

	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors})
	require.NoError(t, svc.Delete(context.Background(), 7, pal.ID))

	assert.Contains(t, store.photos, photo.ID, "photo still referenced by the second palette")
	assert.Contains(t, store.palettes, second.ID)
}

func TestDeleteForeignPalette(t *testing.T) {
	store := newFakeStore()
	_, pal := seedPalette(t, store, 7, false)

	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors})
	err := svc.Delete(context.Background(), 99, pal.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, store.palettes, pal.ID)
}

func TestUpdatePalettePartial(t *testing.T) {
	store := newFakeStore()
	_, pal := seedPalette(t, store, 7, false)

	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors})

	newTitle := "Renamed"
	updated, err := svc.Update(context.Background(), 7, pal.ID, models.UpdatePaletteRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.IsPublic, "absent is_public must keep the stored value")

	updated, err = svc.Update(context.Background(), 7, pal.ID, models.UpdatePaletteRequest{IsPublic: "true"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title, "absent title must keep the stored value")
	assert.True(t, updated.IsPublic)

	_, err = svc.Update(context.Background(), 99, pal.ID, models.UpdatePaletteRequest{Title: &newTitle})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateColor(t *testing.T) {
	store := newFakeStore()
	_, pal := seedPalette(t, store, 7, false)
	colorID := pal.Colors[0].ID

	svc := NewPaletteService(store, &fakeExtractor{colors: fiveColors})

	_, err := svc.UpdateColor(context.Background(), 7, colorID, "not-a-color")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.UpdateColor(context.Background(), 99, colorID, "#ABCDEF")
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateColor(context.Background(), 7, colorID, "#ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, "#abcdef", updated.Hex, "hex is stored lowercase")
}
