package repository

import (
	"context"
	"database/sql"
	"time"

	"travelstory/internal/models"
)

type Users interface {
	Create(fullName, email, passwordHash string) (int, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id int) (*models.User, error)
}

// Stories persists travel stories. Every lookup that takes an ownerID folds
// it into the query predicate, so a story owned by someone else behaves
// exactly like a missing one.
type Stories interface {
	Insert(ctx context.Context, s models.Story) error
	ListByOwner(ctx context.Context, ownerID int) ([]models.Story, error)
	GetByOwner(ctx context.Context, id string, ownerID int) (*models.Story, error)
	Update(ctx context.Context, s models.Story) error
	SetFavourite(ctx context.Context, id string, ownerID int, fav bool) error
	Delete(ctx context.Context, id string, ownerID int) error
	Search(ctx context.Context, ownerID int, query string) ([]models.Story, error)
	ListByDateRange(ctx context.Context, ownerID int, from, to time.Time) ([]models.Story, error)
}

type Repository struct {
	Users   Users
	Stories Stories
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:   NewUserRepository(db),
		Stories: NewStorySQLite(db),
	}
}
