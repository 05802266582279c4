package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"palette-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) CreatePhoto(ctx context.Context, userID int, imageURL string) (*models.Photo, error) {
	photo := &models.Photo{UserID: userID, ImageURL: imageURL}
	query := `INSERT INTO photos (user_id, image_url) VALUES ($1, $2) RETURNING id, created_at`
	err := s.pool.QueryRow(ctx, query, userID, imageURL).Scan(&photo.ID, &photo.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating photo: %w", err)
	}
	return photo, nil
}

func (s *Postgres) GetPhoto(ctx context.Context, id int) (*models.Photo, error) {
	var photo models.Photo
	query := `SELECT id, user_id, image_url, created_at FROM photos WHERE id = $1`
	err := s.pool.QueryRow(ctx, query, id).Scan(&photo.ID, &photo.UserID, &photo.ImageURL, &photo.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching photo: %w", err)
	}
	return &photo, nil
}

func (s *Postgres) DeletePhoto(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) ListUserPhotos(ctx context.Context, userID int) ([]models.PhotoWithPalette, error) {
	query := `SELECT id, user_id, image_url, created_at FROM photos WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}
	defer rows.Close()

	var photos []models.PhotoWithPalette
	for rows.Next() {
		var p models.PhotoWithPalette
		if err := rows.Scan(&p.ID, &p.UserID, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}

	for i := range photos {
		pal, err := s.GetPaletteByPhoto(ctx, photos[i].ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		photos[i].Palette = pal
	}
	return photos, nil
}

func (s *Postgres) CreatePaletteWithColors(ctx context.Context, p *models.Palette, hexes []string) (*models.PaletteWithColors, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting palette transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO palettes (user_id, photo_id, title, is_public, original_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err = tx.QueryRow(ctx, query, p.UserID, p.PhotoID, p.Title, p.IsPublic, p.OriginalID).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating palette: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO colors (hex, palette_id, photo_id) VALUES `)
	args := make([]interface{}, 0, len(hexes)*3)
	for i, hex := range hexes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, hex, p.ID, p.PhotoID)
	}
	sb.WriteString(` RETURNING id, hex, palette_id, photo_id`)

	rows, err := tx.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("creating colors: %w", err)
	}
	colors, err := scanColors(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing palette: %w", err)
	}

	return &models.PaletteWithColors{Palette: *p, Colors: colors}, nil
}

func (s *Postgres) GetPalette(ctx context.Context, id int) (*models.Palette, error) {
	var p models.Palette
	query := `SELECT id, user_id, photo_id, title, is_public, original_id, created_at
		FROM palettes WHERE id = $1`
	err := s.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.UserID, &p.PhotoID, &p.Title, &p.IsPublic, &p.OriginalID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching palette: %w", err)
	}
	return &p, nil
}

func (s *Postgres) GetPaletteDetails(ctx context.Context, id int) (*models.PaletteWithColors, error) {
	var (
		p     models.PaletteWithColors
		photo models.Photo
		user  models.UserSummary
	)
	query := `SELECT p.id, p.user_id, p.photo_id, p.title, p.is_public, p.original_id, p.created_at,
			ph.id, ph.user_id, ph.image_url, ph.created_at,
			u.id, u.username, u.name, u.profile_photo
		FROM palettes p
		JOIN photos ph ON ph.id = p.photo_id
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.PhotoID, &p.Title, &p.IsPublic, &p.OriginalID, &p.CreatedAt,
		&photo.ID, &photo.UserID, &photo.ImageURL, &photo.CreatedAt,
		&user.ID, &user.Username, &user.Name, &user.ProfilePhoto,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching palette details: %w", err)
	}
	p.Photo = &photo
	p.User = &user

	colors, err := s.colorsForPalettes(ctx, []int{p.ID})
	if err != nil {
		return nil, err
	}
	p.Colors = colors[p.ID]
	return &p, nil
}

func (s *Postgres) GetPaletteByPhoto(ctx context.Context, photoID int) (*models.PaletteWithColors, error) {
	var p models.PaletteWithColors
	query := `SELECT id, user_id, photo_id, title, is_public, original_id, created_at
		FROM palettes WHERE photo_id = $1 ORDER BY created_at LIMIT 1`
	err := s.pool.QueryRow(ctx, query, photoID).
		Scan(&p.ID, &p.UserID, &p.PhotoID, &p.Title, &p.IsPublic, &p.OriginalID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching photo palette: %w", err)
	}

	colors, err := s.colorsForPalettes(ctx, []int{p.ID})
	if err != nil {
		return nil, err
	}
	p.Colors = colors[p.ID]
	return &p, nil
}

func (s *Postgres) ListPalettes(ctx context.Context, opts ListOptions) ([]models.PaletteWithColors, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT p.id, p.user_id, p.photo_id, p.title, p.is_public, p.original_id, p.created_at,
			ph.id, ph.user_id, ph.image_url, ph.created_at,
			u.id, u.username, u.name, u.profile_photo
		FROM palettes p
		JOIN photos ph ON ph.id = p.photo_id
		JOIN users u ON u.id = p.user_id`)

	var (
		conds []string
		args  []interface{}
	)
	if opts.UserID != 0 {
		args = append(args, opts.UserID)
		conds = append(conds, fmt.Sprintf("p.user_id = $%d", len(args)))
	}
	if opts.PublicOnly {
		conds = append(conds, "p.is_public = TRUE")
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY p.created_at DESC")
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		args = append(args, opts.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing palettes: %w", err)
	}
	defer rows.Close()

	var (
		palettes []models.PaletteWithColors
		ids      []int
	)
	for rows.Next() {
		var (
			p     models.PaletteWithColors
			photo models.Photo
			user  models.UserSummary
		)
		err := rows.Scan(
			&p.ID, &p.UserID, &p.PhotoID, &p.Title, &p.IsPublic, &p.OriginalID, &p.CreatedAt,
			&photo.ID, &photo.UserID, &photo.ImageURL, &photo.CreatedAt,
			&user.ID, &user.Username, &user.Name, &user.ProfilePhoto,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning palette: %w", err)
		}
		p.Photo = &photo
		p.User = &user
		palettes = append(palettes, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing palettes: %w", err)
	}

	colors, err := s.colorsForPalettes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range palettes {
		palettes[i].Colors = colors[palettes[i].ID]
	}
	return palettes, nil
}

func (s *Postgres) UpdatePalette(ctx context.Context, id int, title string, isPublic bool) (*models.Palette, error) {
	var p models.Palette
	query := `UPDATE palettes SET title = $2, is_public = $3 WHERE id = $1
		RETURNING id, user_id, photo_id, title, is_public, original_id, created_at`
	err := s.pool.QueryRow(ctx, query, id, title, isPublic).
		Scan(&p.ID, &p.UserID, &p.PhotoID, &p.Title, &p.IsPublic, &p.OriginalID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating palette: %w", err)
	}
	return &p, nil
}

func (s *Postgres) DeletePaletteCascade(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM colors WHERE palette_id = $1`, id); err != nil {
		return fmt.Errorf("deleting colors: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM palettes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting palette: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Postgres) CountPhotoRefs(ctx context.Context, photoID int) (int, int, error) {
	var palettes, colors int
	query := `SELECT
		(SELECT count(*) FROM palettes WHERE photo_id = $1),
		(SELECT count(*) FROM colors WHERE photo_id = $1)`
	if err := s.pool.QueryRow(ctx, query, photoID).Scan(&palettes, &colors); err != nil {
		return 0, 0, fmt.Errorf("counting photo references: %w", err)
	}
	return palettes, colors, nil
}

func (s *Postgres) GetColor(ctx context.Context, id int) (*models.Color, error) {
	var c models.Color
	query := `SELECT id, hex, palette_id, photo_id FROM colors WHERE id = $1`
	err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Hex, &c.PaletteID, &c.PhotoID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching color: %w", err)
	}
	return &c, nil
}

func (s *Postgres) UpdateColor(ctx context.Context, id int, hex string) (*models.Color, error) {
	var c models.Color
	query := `UPDATE colors SET hex = $2 WHERE id = $1 RETURNING id, hex, palette_id, photo_id`
	err := s.pool.QueryRow(ctx, query, id, hex).Scan(&c.ID, &c.Hex, &c.PaletteID, &c.PhotoID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating color: %w", err)
	}
	return &c, nil
}

// colorsForPalettes fetches colors for a set of palettes in one query,
// keyed by palette id and ordered by insertion (id).
func (s *Postgres) colorsForPalettes(ctx context.Context, paletteIDs []int) (map[int][]models.Color, error) {
	out := make(map[int][]models.Color, len(paletteIDs))
	if len(paletteIDs) == 0 {
		return out, nil
	}

	query := `SELECT id, hex, palette_id, photo_id FROM colors WHERE palette_id = ANY($1) ORDER BY id`
	rows, err := s.pool.Query(ctx, query, paletteIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching colors: %w", err)
	}
	colors, err := scanColors(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range colors {
		out[c.PaletteID] = append(out[c.PaletteID], c)
	}
	return out, nil
}

func scanColors(rows pgx.Rows) ([]models.Color, error) {
	defer rows.Close()
	var colors []models.Color
	for rows.Next() {
		var c models.Color
		if err := rows.Scan(&c.ID, &c.Hex, &c.PaletteID, &c.PhotoID); err != nil {
			return nil, fmt.Errorf("scanning color: %w", err)
		}
		colors = append(colors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading colors: %w", err)
	}
	return colors, nil
}
