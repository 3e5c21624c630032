package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"travelstory/internal/models"
)

// These tests run against a real sqlite file so LIKE matching and date
// comparisons are exercised by the actual driver, not just asserted as SQL
// text.

func newSQLiteStoryRepo(t *testing.T) *StorySQLite {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "stories.db"))
	if err != nil {
		t.Fatalf("init sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStorySQLite(db)
}

func seedStory(t *testing.T, repo *StorySQLite, id string, ownerID int, title, text string, tags []string, visited time.Time) {
	t.Helper()
	err := repo.Insert(context.Background(), models.Story{
		ID:              id,
		OwnerID:         ownerID,
		Title:           title,
		Story:           text,
		VisitedLocation: tags,
		ImageURL:        "http://localhost:8000/uploads/1-" + id + ".png",
		VisitedDate:     visited,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed story %s: %v", id, err)
	}
}

func TestStorySQLite_Search_AgainstRealDriver(t *testing.T) {
	repo := newSQLiteStoryRepo(t)
	visited := time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC)

	seedStory(t, repo, "s-paris", 7, "Paris trip", "Walked along the Seine", []string{"Paris", "France"}, visited)
	seedStory(t, repo, "s-food", 7, "Street food", "Best dinner of the year", []string{"Fish & Chips"}, visited)
	seedStory(t, repo, "s-sale", 7, "100% worth it", "Market day", []string{"Lisbon"}, visited)
	seedStory(t, repo, "s-foreign", 8, "Paris trip", "Someone else's journal", []string{"Paris"}, visited)

	cases := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"title match", "Paris trip", []string{"s-paris"}},
		{"lower case", "paris", []string{"s-paris"}},
		{"upper case", "PARIS", []string{"s-paris"}},
		{"body text match", "seine", []string{"s-paris"}},
		{"tag match", "france", []string{"s-paris"}},
		{"tag with ampersand", "Fish & Chips", []string{"s-food"}},
		{"literal percent", "100%", []string{"s-sale"}},
		{"near miss is no match", "Par1s", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := repo.Search(context.Background(), 7, tc.query)
			if err != nil {
				t.Fatalf("Search returned error: %v", err)
			}
			if len(out) != len(tc.wantIDs) {
				t.Fatalf("query %q: got %d stories, want %d (%+v)", tc.query, len(out), len(tc.wantIDs), out)
			}
			for i, want := range tc.wantIDs {
				if out[i].ID != want {
					t.Fatalf("query %q: got story %q at %d, want %q", tc.query, out[i].ID, i, want)
				}
			}
		})
	}
}

func TestStorySQLite_ListByDateRange_BoundsInclusive(t *testing.T) {
	repo := newSQLiteStoryRepo(t)

	jan := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	seedStory(t, repo, "s-jan", 7, "New year", "x", []string{"Oslo"}, jan)
	seedStory(t, repo, "s-jun", 7, "Midsummer", "x", []string{"Oslo"}, jun)
	seedStory(t, repo, "s-dec", 7, "Year's end", "x", []string{"Oslo"}, dec)

	out, err := repo.ListByDateRange(context.Background(), 7, jan, dec)
	if err != nil {
		t.Fatalf("ListByDateRange returned error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("stories on the range bounds must be included: got %d, want 3", len(out))
	}

	out, err = repo.ListByDateRange(context.Background(), 7, jun, jun)
	if err != nil {
		t.Fatalf("ListByDateRange returned error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "s-jun" {
		t.Fatalf("single-day range: got %+v", out)
	}

	out, err = repo.ListByDateRange(context.Background(), 7, jan.AddDate(0, 0, 1), dec.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("ListByDateRange returned error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "s-jun" {
		t.Fatalf("interior range must exclude the bound stories: got %+v", out)
	}
}
