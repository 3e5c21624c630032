package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelstory/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

// ErrEmailTaken reports a violation of the unique email constraint.
var ErrEmailTaken = errors.New("email already registered")

const (
	insertUserSQL        = `INSERT INTO users (full_name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`
	selectUserByEmailSQL = `SELECT id, full_name, email, password_hash, created_at FROM users WHERE email = ?`
	selectUserByIDSQL    = `SELECT id, full_name, email, password_hash, created_at FROM users WHERE id = ?`
)

// Create inserts a new user and returns its ID. A unique-constraint
// violation on email is mapped to ErrEmailTaken.
func (r *UserRepository) Create(fullName, email, passwordHash string) (int, error) {
	res, err := r.db.Exec(insertUserSQL, fullName, email, passwordHash, time.Now().UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", email, err)
	}
	return int(lastID), nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(selectUserByEmailSQL, email)
}

// GetByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	return r.getOne(selectUserByIDSQL, id)
}

func (r *UserRepository) getOne(query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(query, arg).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
