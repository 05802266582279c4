package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	ProfilePhoto *string   `json:"profile_photo"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the public slice of a user embedded in palette/comment responses
type UserSummary struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	ProfilePhoto *string `json:"profile_photo"`
}

type UserStats struct {
	Palettes      int `json:"palettes"`
	Followers     int `json:"followers"`
	Following     int `json:"following"`
	LikesReceived int `json:"likes_received"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	UserID   int    `json:"user_id"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
}
