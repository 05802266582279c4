package models

import "time"

// Photo represents a user-uploaded source image. Immutable after creation.
type Photo struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// PhotoWithPalette joins a photo with the palette extracted from it, if any.
type PhotoWithPalette struct {
	Photo
	Palette *PaletteWithColors `json:"palette,omitempty"`
}

// UploadPhotoRequest is the JSON body of POST /api/photos.
// IsPublic is deliberately untyped: clients send both booleans and the
// strings "true"/"false" (see utils.ParseFlexibleBool).
type UploadPhotoRequest struct {
	ImageURL string      `json:"image_url"`
	Title    string      `json:"title"`
	IsPublic interface{} `json:"is_public"`
}
