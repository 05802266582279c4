package models

// Color is one of the five entries of a palette. PhotoID is denormalized so
// colors can be queried by source photo without joining through palettes.
type Color struct {
	ID        int    `json:"id"`
	Hex       string `json:"hex"`
	PaletteID int    `json:"palette_id"`
	PhotoID   int    `json:"photo_id"`
}

type UpdateColorRequest struct {
	Hex string `json:"hex"`
}
