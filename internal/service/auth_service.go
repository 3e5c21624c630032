package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelstory/internal/models"
	"travelstory/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 72 * time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid credentials")
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateUser   = errors.New("user already exists")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthConfig carries the signing secret and token lifetime, injected from
// configuration at startup.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// AuthService handles registration, login and token issuance.
type AuthService struct {
	users repository.Users
	cfg   AuthConfig
}

func NewAuthService(users repository.Users, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &AuthService{users: users, cfg: cfg}
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// SignUp hashes the password, creates a new user and issues a token.
// A taken email yields ErrDuplicateUser.
func (s *AuthService) SignUp(fullName, email, password string) (models.User, string, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)
	if fullName == "" || email == "" {
		return models.User{}, "", errors.New("full name and email are required")
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return models.User{}, "", err
	}
	if existing != nil {
		return models.User{}, "", ErrDuplicateUser
	}

	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("invalid password: %w", err)
	}

	id, err := s.users.Create(fullName, email, hash)
	if err != nil {
		// Unique-constraint race between the existence check and the insert.
		if errors.Is(err, repository.ErrEmailTaken) {
			return models.User{}, "", ErrDuplicateUser
		}
		return models.User{}, "", err
	}

	token, err := s.issueToken(id)
	if err != nil {
		return models.User{}, "", err
	}
	return models.User{ID: id, FullName: fullName, Email: email}, token, nil
}

// SignIn validates credentials and returns the user with a fresh token.
func (s *AuthService) SignIn(email, password string) (models.User, string, error) {
	u, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return models.User{}, "", err
	}
	if u == nil {
		return models.User{}, "", ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return models.User{}, "", ErrInvalidPassword
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return *u, token, nil
}

// ParseToken parses the JWT and returns the embedded user id.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// GetUser fetches the acting user's profile.
func (s *AuthService) GetUser(ctx context.Context, id int) (models.User, error) {
	u, err := s.users.GetByID(id)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	return *u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(userID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}
