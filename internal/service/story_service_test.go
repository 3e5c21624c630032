package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"travelstory/internal/feed"
	"travelstory/internal/models"
)

// mockStoryRepo is a lightweight in-test mock for repository.Stories.
type mockStoryRepo struct {
	InsertFn       func(ctx context.Context, s models.Story) error
	ListByOwnerFn  func(ctx context.Context, ownerID int) ([]models.Story, error)
	GetByOwnerFn   func(ctx context.Context, id string, ownerID int) (*models.Story, error)
	UpdateFn       func(ctx context.Context, s models.Story) error
	SetFavouriteFn func(ctx context.Context, id string, ownerID int, fav bool) error
	DeleteFn       func(ctx context.Context, id string, ownerID int) error
	SearchFn       func(ctx context.Context, ownerID int, query string) ([]models.Story, error)
	ByDateRangeFn  func(ctx context.Context, ownerID int, from, to time.Time) ([]models.Story, error)

	inserted []models.Story
	updated  []models.Story
	deleted  []string
}

func (m *mockStoryRepo) Insert(ctx context.Context, s models.Story) error {
	m.inserted = append(m.inserted, s)
	if m.InsertFn != nil {
		return m.InsertFn(ctx, s)
	}
	return nil
}

func (m *mockStoryRepo) ListByOwner(ctx context.Context, ownerID int) ([]models.Story, error) {
	return m.ListByOwnerFn(ctx, ownerID)
}

func (m *mockStoryRepo) GetByOwner(ctx context.Context, id string, ownerID int) (*models.Story, error) {
	return m.GetByOwnerFn(ctx, id, ownerID)
}

func (m *mockStoryRepo) Update(ctx context.Context, s models.Story) error {
	m.updated = append(m.updated, s)
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, s)
	}
	return nil
}

func (m *mockStoryRepo) SetFavourite(ctx context.Context, id string, ownerID int, fav bool) error {
	if m.SetFavouriteFn != nil {
		return m.SetFavouriteFn(ctx, id, ownerID, fav)
	}
	return nil
}

func (m *mockStoryRepo) Delete(ctx context.Context, id string, ownerID int) error {
	m.deleted = append(m.deleted, id)
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}
	return nil
}

func (m *mockStoryRepo) Search(ctx context.Context, ownerID int, query string) ([]models.Story, error) {
	return m.SearchFn(ctx, ownerID, query)
}

func (m *mockStoryRepo) ListByDateRange(ctx context.Context, ownerID int, from, to time.Time) ([]models.Story, error) {
	return m.ByDateRangeFn(ctx, ownerID, from, to)
}

// mockMedia records Release calls; Store is unused by the story service.
type mockMedia struct {
	releaseErr   error
	releaseCalls []string
}

func (m *mockMedia) Store(originalName string, src io.Reader) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockMedia) Release(imageRef string) error {
	m.releaseCalls = append(m.releaseCalls, imageRef)
	return m.releaseErr
}

func (m *mockMedia) Placeholder() string {
	return "http://localhost:8000/assets/placeholder.png"
}

func validParams() StoryParams {
	return StoryParams{
		Title:           "Paris trip",
		Story:           "Walked along the Seine",
		VisitedLocation: []string{"Paris", "France"},
		ImageURL:        "http://localhost:8000/uploads/1-seine.png",
		VisitedDateMs:   1700000000000,
	}
}

func newTestStoryService(repo *mockStoryRepo, media *mockMedia) *StoryService {
	return NewStoryService(repo, media, nil, nil)
}

// --- Create tests ---

func TestStoryService_Create_MissingFields(t *testing.T) {
	repo := &mockStoryRepo{}
	svc := newTestStoryService(repo, &mockMedia{})

	cases := []struct {
		name   string
		mutate func(*StoryParams)
	}{
		{"no title", func(p *StoryParams) { p.Title = "" }},
		{"no story", func(p *StoryParams) { p.Story = "  " }},
		{"no locations", func(p *StoryParams) { p.VisitedLocation = nil }},
		{"no image", func(p *StoryParams) { p.ImageURL = "" }},
		{"no date", func(p *StoryParams) { p.VisitedDateMs = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			_, err := svc.Create(context.Background(), 1, p)
			if !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields, got: %v", err)
			}
		})
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("expected no inserts, got %d", len(repo.inserted))
	}
}

func TestStoryService_Create_ConvertsEpochMillisToCalendarDate(t *testing.T) {
	repo := &mockStoryRepo{}
	svc := newTestStoryService(repo, &mockMedia{})

	p := validParams()
	p.VisitedDateMs = 1700000000000

	story, err := svc.Create(context.Background(), 9, p)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	want := time.UnixMilli(1700000000000).UTC()
	if !story.VisitedDate.Equal(want) {
		t.Fatalf("visited date: got %v, want %v", story.VisitedDate, want)
	}
	if story.ID == "" {
		t.Fatalf("expected a generated story id")
	}
	if story.OwnerID != 9 {
		t.Fatalf("expected owner 9, got %d", story.OwnerID)
	}
	if story.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}
	if story.IsFavourite {
		t.Fatalf("new story must not start as favourite")
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
	if !repo.inserted[0].VisitedDate.Equal(want) {
		t.Fatalf("persisted visited date: got %v, want %v", repo.inserted[0].VisitedDate, want)
	}
}

// --- Edit tests ---

func TestStoryService_Edit_NotFoundForForeignOwner(t *testing.T) {
	repo := &mockStoryRepo{
		// owner-scoped lookup misses: story exists but belongs to someone else
		GetByOwnerFn: func(ctx context.Context, id string, ownerID int) (*models.Story, error) {
			return nil, nil
		},
	}
	svc := newTestStoryService(repo, &mockMedia{})

	_, err := svc.Edit(context.Background(), "abc", 2, validParams())
	if !errors.Is(err, ErrStoryNotFound) {
		t.Fatalf("expected ErrStoryNotFound, got: %v", err)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("edit must not mutate anything on a missed lookup")
	}
}

func TestStoryService_Edit_EmptyImageGetsPlaceholder(t *testing.T) {
	existing := models.Story{ID: "abc", OwnerID: 2, Title: "old", ImageURL: "http://localhost:8000/uploads/1-old.png"}
	repo := &mockStoryRepo{
		GetByOwnerFn: func(ctx context.Context, id string, ownerID int) (*models.Story, error) {
			s := existing
			return &s, nil
		},
	}
	media := &mockMedia{}
	svc := newTestStoryService(repo, media)

	p := validParams()
	p.ImageURL = ""
	story, err := svc.Edit(context.Background(), "abc", 2, p)
	if err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if story.ImageURL != media.Placeholder() {
		t.Fatalf("expected placeholder image, got %q", story.ImageURL)
	}
	if story.Title != p.Title {
		t.Fatalf("expected title replaced, got %q", story.Title)
	}
}

// --- Favourite tests ---

func TestStoryService_SetFavourite_ToggleTwiceRestoresFlag(t *testing.T) {
	current := models.Story{ID: "abc", OwnerID: 2, IsFavourite: false}
	repo := &mockStoryRepo{
		GetByOwnerFn: func(ctx context.Context, id string, ownerID int) (*models.Story, error) {
			s := current
			return &s, nil
		},
		SetFavouriteFn: func(ctx context.Context, id string, ownerID int, fav bool) error {
			current.IsFavourite = fav
			return nil
		},
	}
	svc := newTestStoryService(repo, &mockMedia{})

	st, err := svc.SetFavourite(context.Background(), "abc", 2, true)
	if err != nil {
		t.Fatalf("SetFavourite returned error: %v", err)
	}
	if !st.IsFavourite {
		t.Fatalf("expected favourite set")
	}

	st, err = svc.SetFavourite(context.Background(), "abc", 2, false)
	if err != nil {
		t.Fatalf("SetFavourite returned error: %v", err)
	}
	if st.IsFavourite || current.IsFavourite {
		t.Fatalf("expected flag restored to original value")
	}
}

// --- Delete tests ---

func TestStoryService_Delete_ReleasesImage(t *testing.T) {
	repo := &mockStoryRepo{
		GetByOwnerFn: func(ctx context.Context, id string, ownerID int) (*models.Story, error) {
			return &models.Story{ID: "abc", OwnerID: 2, ImageURL: "http://localhost:8000/uploads/1-x.png"}, nil
		},
	}
	media := &mockMedia{}
	svc := newTestStoryService(repo, media)

	if err := svc.Delete(context.Background(), "abc", 2); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "abc" {
		t.Fatalf("expected record delete for abc, got %v", repo.deleted)
	}
	if len(media.releaseCalls) != 1 || media.releaseCalls[0] != "http://localhost:8000/uploads/1-x.png" {
		t.Fatalf("expected image release, got %v", media.releaseCalls)
	}
}

func TestStoryService_Delete_FileReleaseFailureIsNotSurfaced(t *testing.T) {
	repo := &mockStoryRepo{
		GetByOwnerFn: func(ctx context.Context, id string, ownerID int) (*models.Story, error) {
			return &models.Story{ID: "abc", OwnerID: 2, ImageURL: "http://localhost:8000/uploads/1-x.png"}, nil
		},
	}
	media := &mockMedia{releaseErr: errors.New("disk on fire")}
	svc := newTestStoryService(repo, media)

	if err := svc.Delete(context.Background(), "abc", 2); err != nil {
		t.Fatalf("record deletion must not fail on file release error, got: %v", err)
	}
}

func TestStoryService_Delete_NotFound(t *testing.T) {
	repo := &mockStoryRepo{
		GetByOwnerFn: func(ctx context.Context, id string, ownerID int) (*models.Story, error) {
			return nil, nil
		},
	}
	media := &mockMedia{}
	svc := newTestStoryService(repo, media)

	err := svc.Delete(context.Background(), "nope", 2)
	if !errors.Is(err, ErrStoryNotFound) {
		t.Fatalf("expected ErrStoryNotFound, got: %v", err)
	}
	if len(media.releaseCalls) != 0 {
		t.Fatalf("no release expected for a missed lookup")
	}
}

// --- Search / filter tests ---

func TestStoryService_Search_EmptyQuery(t *testing.T) {
	svc := newTestStoryService(&mockStoryRepo{}, &mockMedia{})
	_, err := svc.Search(context.Background(), 1, "   ")
	if !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got: %v", err)
	}
}

func TestStoryService_Search_TrimsQuery(t *testing.T) {
	var gotQuery string
	repo := &mockStoryRepo{
		SearchFn: func(ctx context.Context, ownerID int, query string) ([]models.Story, error) {
			gotQuery = query
			return []models.Story{{ID: "1"}}, nil
		},
	}
	svc := newTestStoryService(repo, &mockMedia{})

	out, err := svc.Search(context.Background(), 1, "  paris ")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if gotQuery != "paris" {
		t.Fatalf("expected trimmed query, got %q", gotQuery)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 story, got %d", len(out))
	}
}

func TestStoryService_FilterByDate_InvalidRange(t *testing.T) {
	svc := newTestStoryService(&mockStoryRepo{}, &mockMedia{})
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.FilterByDate(context.Background(), 1, from, to)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got: %v", err)
	}
}

// --- Feed publication ---

func TestStoryService_MutationsPublishToFeed(t *testing.T) {
	repo := &mockStoryRepo{
		GetByOwnerFn: func(ctx context.Context, id string, ownerID int) (*models.Story, error) {
			return &models.Story{ID: id, OwnerID: ownerID, ImageURL: "x"}, nil
		},
	}
	events := feed.New()
	svc := NewStoryService(repo, &mockMedia{}, events, nil)

	ch := events.Subscribe(4)
	defer events.Unsubscribe(4, ch)

	if _, err := svc.Create(context.Background(), 4, validParams()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), "abc", 4); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	got := []string{(<-ch).Action, (<-ch).Action}
	if got[0] != feed.ActionCreated || got[1] != feed.ActionDeleted {
		t.Fatalf("unexpected event actions: %v", got)
	}
}
