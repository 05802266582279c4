package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"palette-backend/internal/db"
	"palette-backend/internal/models"
	"palette-backend/internal/repo"
	"palette-backend/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user models.User
	query := `INSERT INTO users (username, name, password_hash) VALUES ($1, $2, $3)
		RETURNING id, username, name, profile_photo, created_at`
	err = db.Pool.QueryRow(ctx, query, req.Username, req.Name, string(hash)).
		Scan(&user.ID, &user.Username, &user.Name, &user.ProfilePhoto, &user.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var user models.User
	query := `SELECT id, username, password_hash FROM users WHERE username = $1`
	err := db.Pool.QueryRow(ctx, query, req.Username).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	token, err := GenerateJWT(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:    token,
		Username: user.Username,
		UserID:   user.ID,
	}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, name, profile_photo, created_at FROM users WHERE id = $1`
	err := db.Pool.QueryRow(ctx, query, userID).
		Scan(&user.ID, &user.Username, &user.Name, &user.ProfilePhoto, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalidRequest)
		}
		user.Username = username
	}

	query := `UPDATE users SET username = $2, name = $3 WHERE id = $1
		RETURNING id, username, name, profile_photo, created_at`
	err = db.Pool.QueryRow(ctx, query, userID, user.Username, user.Name).
		Scan(&user.ID, &user.Username, &user.Name, &user.ProfilePhoto, &user.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetProfilePhoto stores the URL returned by the object-storage boundary.
func (s *UserService) SetProfilePhoto(ctx context.Context, userID int, url string) (*models.User, error) {
	var user models.User
	query := `UPDATE users SET profile_photo = $2 WHERE id = $1
		RETURNING id, username, name, profile_photo, created_at`
	err := db.Pool.QueryRow(ctx, query, userID, url).
		Scan(&user.ID, &user.Username, &user.Name, &user.ProfilePhoto, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Search(ctx context.Context, q string) ([]models.UserSummary, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidRequest)
	}

	query := `SELECT id, username, name, profile_photo FROM users
		WHERE username ILIKE '%' || $1 || '%' ORDER BY username LIMIT 20`
	rows, err := db.Pool.Query(ctx, query, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.ProfilePhoto); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *UserService) Stats(ctx context.Context, userID int) (*models.UserStats, error) {
	var stats models.UserStats
	query := `SELECT
		(SELECT count(*) FROM palettes WHERE user_id = $1),
		(SELECT count(*) FROM follows WHERE following_id = $1),
		(SELECT count(*) FROM follows WHERE follower_id = $1),
		(SELECT count(*) FROM likes l JOIN palettes p ON p.id = l.palette_id WHERE p.user_id = $1)`
	err := db.Pool.QueryRow(ctx, query, userID).
		Scan(&stats.Palettes, &stats.Followers, &stats.Following, &stats.LikesReceived)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func GenerateJWT(userID int, username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.GetEnv("JWT_SECRET", "secret")))
}

func ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(utils.GetEnv("JWT_SECRET", "secret")), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
