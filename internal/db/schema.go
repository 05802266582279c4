package db

// One statement per entry: pgx uses the extended protocol, which does not
// accept multi-statement strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		profile_photo TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS photos (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		image_url TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS palettes (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		photo_id INT NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
		title TEXT NOT NULL DEFAULT 'Minha Paleta',
		is_public BOOLEAN NOT NULL DEFAULT FALSE,
		original_id INT REFERENCES palettes(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS colors (
		id SERIAL PRIMARY KEY,
		hex CHAR(7) NOT NULL,
		palette_id INT NOT NULL REFERENCES palettes(id) ON DELETE CASCADE,
		photo_id INT NOT NULL REFERENCES photos(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS likes (
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		palette_id INT NOT NULL REFERENCES palettes(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, palette_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		palette_id INT NOT NULL REFERENCES palettes(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		follower_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		following_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (follower_id, following_id)
	)`,
}
