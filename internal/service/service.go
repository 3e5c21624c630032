package service

import (
	"context"
	"io"
	"time"

	"travelstory/internal/feed"
	"travelstory/internal/logger"
	"travelstory/internal/models"
	"travelstory/internal/repository"
)

type Authorization interface {
	SignUp(fullName, email, password string) (models.User, string, error)
	SignIn(email, password string) (models.User, string, error)
	ParseToken(accessToken string) (int, error)
	GetUser(ctx context.Context, id int) (models.User, error)
}

// Stories exposes travel-story CRUD plus search and date filtering. All
// operations are owner-scoped.
type Stories interface {
	Create(ctx context.Context, ownerID int, p StoryParams) (models.Story, error)
	List(ctx context.Context, ownerID int) ([]models.Story, error)
	Edit(ctx context.Context, id string, ownerID int, p StoryParams) (models.Story, error)
	SetFavourite(ctx context.Context, id string, ownerID int, fav bool) (models.Story, error)
	Delete(ctx context.Context, id string, ownerID int) error
	Search(ctx context.Context, ownerID int, query string) ([]models.Story, error)
	FilterByDate(ctx context.Context, ownerID int, from, to time.Time) ([]models.Story, error)
}

// Media owns the image upload directory: stores uploads and releases files
// no longer referenced by any story.
type Media interface {
	Store(originalName string, src io.Reader) (string, error)
	Release(imageRef string) error
	Placeholder() string
}

// StoryParams carries the client-supplied fields of a story. VisitedDateMs
// is an epoch-millisecond value, converted to a calendar date on write.
type StoryParams struct {
	Title           string
	Story           string
	VisitedLocation []string
	ImageURL        string
	VisitedDateMs   int64
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Stories
	Media
}

// Deps collects the dependencies of the service layer. The signing key and
// media paths come from configuration loaded once in main.
type Deps struct {
	Repos *repository.Repository
	Auth  AuthConfig
	Media MediaConfig
	Feed  *feed.Feed
	Log   *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(d Deps) *Service {
	media := NewMediaService(d.Media)
	return &Service{
		Authorization: NewAuthService(d.Repos.Users, d.Auth),
		Stories:       NewStoryService(d.Repos.Stories, media, d.Feed, d.Log),
		Media:         media,
	}
}
