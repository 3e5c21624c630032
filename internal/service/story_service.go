package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"travelstory/internal/feed"
	"travelstory/internal/logger"
	"travelstory/internal/models"
	"travelstory/internal/repository"

	"github.com/google/uuid"
)

// Domain errors for story flows.
var (
	ErrMissingFields = errors.New("all fields are required")
	ErrStoryNotFound = errors.New("travel story not found")
	ErrEmptyQuery    = errors.New("search query is required")
	ErrInvalidRange  = errors.New("invalid date range: start must be <= end")
)

type StoryService struct {
	stories repository.Stories
	media   Media
	events  *feed.Feed
	log     *logger.Logger
}

func NewStoryService(stories repository.Stories, media Media, events *feed.Feed, log *logger.Logger) *StoryService {
	return &StoryService{stories: stories, media: media, events: events, log: log}
}

// validateParams checks the required story fields. Edit tolerates an empty
// image reference (substituted with the placeholder), create does not.
func validateParams(p StoryParams, requireImage bool) error {
	if strings.TrimSpace(p.Title) == "" ||
		strings.TrimSpace(p.Story) == "" ||
		len(p.VisitedLocation) == 0 ||
		p.VisitedDateMs <= 0 {
		return ErrMissingFields
	}
	if requireImage && strings.TrimSpace(p.ImageURL) == "" {
		return ErrMissingFields
	}
	return nil
}

// visitedDateFromMs converts a client-supplied epoch-millisecond value into
// the stored calendar-date representation.
func visitedDateFromMs(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Create persists a new story for the owner.
func (s *StoryService) Create(ctx context.Context, ownerID int, p StoryParams) (models.Story, error) {
	if err := validateParams(p, true); err != nil {
		return models.Story{}, err
	}

	story := models.Story{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Title:           p.Title,
		Story:           p.Story,
		VisitedLocation: p.VisitedLocation,
		ImageURL:        p.ImageURL,
		VisitedDate:     visitedDateFromMs(p.VisitedDateMs),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.stories.Insert(ctx, story); err != nil {
		return models.Story{}, err
	}

	s.publish(ownerID, feed.ActionCreated, story)
	return story, nil
}

// List returns the owner's stories, favourites first.
func (s *StoryService) List(ctx context.Context, ownerID int) ([]models.Story, error) {
	return s.stories.ListByOwner(ctx, ownerID)
}

// Edit replaces the mutable fields of an owner's story. An empty image
// reference is substituted with the placeholder.
func (s *StoryService) Edit(ctx context.Context, id string, ownerID int, p StoryParams) (models.Story, error) {
	if err := validateParams(p, false); err != nil {
		return models.Story{}, err
	}

	story, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return models.Story{}, err
	}

	imageURL := strings.TrimSpace(p.ImageURL)
	if imageURL == "" {
		imageURL = s.media.Placeholder()
	}

	story.Title = p.Title
	story.Story = p.Story
	story.VisitedLocation = p.VisitedLocation
	story.ImageURL = imageURL
	story.VisitedDate = visitedDateFromMs(p.VisitedDateMs)

	if err := s.stories.Update(ctx, *story); err != nil {
		return models.Story{}, err
	}

	s.publish(ownerID, feed.ActionUpdated, *story)
	return *story, nil
}

// SetFavourite sets the favourite flag of an owner's story.
func (s *StoryService) SetFavourite(ctx context.Context, id string, ownerID int, fav bool) (models.Story, error) {
	story, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return models.Story{}, err
	}

	if err := s.stories.SetFavourite(ctx, id, ownerID, fav); err != nil {
		return models.Story{}, err
	}
	story.IsFavourite = fav

	s.publish(ownerID, feed.ActionUpdated, *story)
	return *story, nil
}

// Delete removes an owner's story, then releases its image file. The record
// comes first; a failed file delete is logged but never rolls it back.
func (s *StoryService) Delete(ctx context.Context, id string, ownerID int) error {
	story, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.stories.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.media.Release(story.ImageURL); err != nil && s.log != nil {
		s.log.Errorw("story_image_release_failed", "story_id", id, "image_url", story.ImageURL, "err", err)
	}

	s.publish(ownerID, feed.ActionDeleted, *story)
	return nil
}

// Search returns the owner's stories matching the query as a
// case-insensitive substring of title, text, or location tags.
func (s *StoryService) Search(ctx context.Context, ownerID int, query string) ([]models.Story, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	return s.stories.Search(ctx, ownerID, strings.TrimSpace(query))
}

// FilterByDate returns the owner's stories visited within [from, to] inclusive.
func (s *StoryService) FilterByDate(ctx context.Context, ownerID int, from, to time.Time) ([]models.Story, error) {
	if from.After(to) {
		return nil, ErrInvalidRange
	}
	return s.stories.ListByDateRange(ctx, ownerID, from, to)
}

// getOwned loads a story scoped to its owner; a miss (including someone
// else's story) is ErrStoryNotFound.
func (s *StoryService) getOwned(ctx context.Context, id string, ownerID int) (*models.Story, error) {
	story, err := s.stories.GetByOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}
	return story, nil
}

func (s *StoryService) publish(ownerID int, action string, story models.Story) {
	if s.events != nil {
		s.events.Publish(ownerID, feed.Event{Action: action, Story: story})
	}
}
