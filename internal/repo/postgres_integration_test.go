//go:build integration
// +build integration

package repo

import (
	"context"
	"testing"
	"time"

	"palette-backend/internal/db"
	"palette-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupStore starts a throwaway PostgreSQL container, bootstraps the schema
// and returns a Store backed by it.
func setupStore(t *testing.T) (*Postgres, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("palettedb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db.Pool = pool
	require.NoError(t, db.InitSchema(ctx))

	return NewPostgres(pool), pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (username, password_hash) VALUES ('tester', 'x') RETURNING id`).Scan(&id)
	require.NoError(t, err)
	return id
}

var testHexes = []string{"#112233", "#445566", "#778899", "#aabbcc", "#ddeeff"}

func TestCreatePaletteWithColorsIsAtomic(t *testing.T) {
	store, pool := setupStore(t)
	ctx := context.Background()
	userID := seedUser(t, pool)

	photo, err := store.CreatePhoto(ctx, userID, "https://example.com/cat.jpg")
	require.NoError(t, err)

	// "#aabbccdd" overflows the CHAR(7) column, so the batch insert fails and
	// the palette row created earlier in the transaction must be rolled back.
	bad := []string{"#112233", "#445566", "#778899", "#aabbcc", "#aabbccdd"}
	_, err = store.CreatePaletteWithColors(ctx,
		&models.Palette{UserID: userID, PhotoID: photo.ID, Title: "Broken"}, bad)
	require.Error(t, err)

	palettes, colors, err := store.CountPhotoRefs(ctx, photo.ID)
	require.NoError(t, err)
	assert.Zero(t, palettes, "palette row must not survive a failed color batch")
	assert.Zero(t, colors)

	// The same photo still accepts a valid palette afterwards.
	created, err := store.CreatePaletteWithColors(ctx,
		&models.Palette{UserID: userID, PhotoID: photo.ID, Title: "Good"}, testHexes)
	require.NoError(t, err)
	require.Len(t, created.Colors, 5)
	for i, c := range created.Colors {
		assert.Equal(t, testHexes[i], c.Hex)
		assert.Equal(t, created.ID, c.PaletteID)
		assert.Equal(t, photo.ID, c.PhotoID)
	}
}

func TestDeletePaletteCascadeAgainstPostgres(t *testing.T) {
	store, pool := setupStore(t)
	ctx := context.Background()
	userID := seedUser(t, pool)

	photo, err := store.CreatePhoto(ctx, userID, "https://example.com/cat.jpg")
	require.NoError(t, err)
	created, err := store.CreatePaletteWithColors(ctx,
		&models.Palette{UserID: userID, PhotoID: photo.ID, Title: "Mood"}, testHexes)
	require.NoError(t, err)

	require.NoError(t, store.DeletePaletteCascade(ctx, created.ID))

	_, err = store.GetPalette(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	palettes, colors, err := store.CountPhotoRefs(ctx, photo.ID)
	require.NoError(t, err)
	assert.Zero(t, palettes)
	assert.Zero(t, colors, "cascade must take the color rows with the palette")

	// The photo row is untouched; its lifecycle belongs to the services.
	_, err = store.GetPhoto(ctx, photo.ID)
	assert.NoError(t, err)
}

func TestGetPaletteByPhotoPreservesColorOrder(t *testing.T) {
	store, pool := setupStore(t)
	ctx := context.Background()
	userID := seedUser(t, pool)

	photo, err := store.CreatePhoto(ctx, userID, "https://example.com/cat.jpg")
	require.NoError(t, err)
	_, err = store.CreatePaletteWithColors(ctx,
		&models.Palette{UserID: userID, PhotoID: photo.ID, Title: "Mood"}, testHexes)
	require.NoError(t, err)

	got, err := store.GetPaletteByPhoto(ctx, photo.ID)
	require.NoError(t, err)
	require.Len(t, got.Colors, 5)
	for i, c := range got.Colors {
		assert.Equal(t, testHexes[i], c.Hex)
	}
}
