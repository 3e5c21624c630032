package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"travelstory/internal/models"
)

type StorySQLite struct {
	db *sql.DB
}

func NewStorySQLite(db *sql.DB) *StorySQLite { return &StorySQLite{db: db} }

var _ Stories = (*StorySQLite)(nil)

const storyColumns = `id, owner_id, title, story, visited_locations, image_url, visited_date, is_favourite, created_at`

const (
	insertStorySQL = `
		INSERT INTO stories (id, owner_id, title, story, visited_locations, image_url, visited_date, is_favourite, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	updateStorySQL = `
		UPDATE stories
		SET title = ?, story = ?, visited_locations = ?, image_url = ?, visited_date = ?
		WHERE id = ? AND owner_id = ?
	`

	setFavouriteSQL = `UPDATE stories SET is_favourite = ? WHERE id = ? AND owner_id = ?`

	deleteStorySQL = `DELETE FROM stories WHERE id = ? AND owner_id = ?`

	selectStoryByOwnerSQL = `SELECT ` + storyColumns + ` FROM stories WHERE id = ? AND owner_id = ?`

	// Favourites first, then insertion order.
	favouritesFirst = ` ORDER BY is_favourite DESC, created_at ASC`
)

// marshalLocations converts the tag slice to its stored JSON string. HTML
// escaping is off so tags containing &, < or > stay searchable as text.
func marshalLocations(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tags); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// unmarshalLocations parses a stored JSON string into a tag slice.
func unmarshalLocations(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Insert persists a new story; ID, OwnerID and CreatedAt are expected to be set.
func (r *StorySQLite) Insert(ctx context.Context, s models.Story) error {
	locations, err := marshalLocations(s.VisitedLocation)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertStorySQL,
		s.ID,
		s.OwnerID,
		s.Title,
		s.Story,
		locations,
		s.ImageURL,
		s.VisitedDate.UTC(),
		s.IsFavourite,
		s.CreatedAt.UTC(),
	)
	return err
}

// ListByOwner returns all stories for the owner, favourites first.
func (r *StorySQLite) ListByOwner(ctx context.Context, ownerID int) ([]models.Story, error) {
	q := `SELECT ` + storyColumns + ` FROM stories WHERE owner_id = ?` + favouritesFirst
	return r.queryStories(ctx, q, ownerID)
}

// GetByOwner fetches one story scoped to its owner. Returns (nil, nil) if no
// story matches both id and owner.
func (r *StorySQLite) GetByOwner(ctx context.Context, id string, ownerID int) (*models.Story, error) {
	row := r.db.QueryRowContext(ctx, selectStoryByOwnerSQL, id, ownerID)
	s, err := scanStory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Update replaces the mutable fields of a story, scoped to its owner.
func (r *StorySQLite) Update(ctx context.Context, s models.Story) error {
	locations, err := marshalLocations(s.VisitedLocation)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, updateStorySQL,
		s.Title,
		s.Story,
		locations,
		s.ImageURL,
		s.VisitedDate.UTC(),
		s.ID,
		s.OwnerID,
	)
	return err
}

// SetFavourite sets the favourite flag, scoped to the owner.
func (r *StorySQLite) SetFavourite(ctx context.Context, id string, ownerID int, fav bool) error {
	_, err := r.db.ExecContext(ctx, setFavouriteSQL, fav, id, ownerID)
	return err
}

// Delete removes a story record, scoped to the owner.
func (r *StorySQLite) Delete(ctx context.Context, id string, ownerID int) error {
	_, err := r.db.ExecContext(ctx, deleteStorySQL, id, ownerID)
	return err
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Search returns the owner's stories whose title, text, or location tags
// contain the query as a substring. SQLite LIKE is case-insensitive for
// ASCII, which matches the intended semantics. The tag match runs over the
// stored JSON text, so a query containing `","` can also span the boundary
// between two adjacent tags.
func (r *StorySQLite) Search(ctx context.Context, ownerID int, query string) ([]models.Story, error) {
	pattern := "%" + escapeLike(query) + "%"
	q := `SELECT ` + storyColumns + ` FROM stories
		WHERE owner_id = ?
		AND (title LIKE ? ESCAPE '\' OR story LIKE ? ESCAPE '\' OR visited_locations LIKE ? ESCAPE '\')` +
		favouritesFirst
	return r.queryStories(ctx, q, ownerID, pattern, pattern, pattern)
}

// ListByDateRange returns the owner's stories with visited_date within
// [from, to] inclusive, favourites first.
func (r *StorySQLite) ListByDateRange(ctx context.Context, ownerID int, from, to time.Time) ([]models.Story, error) {
	q := `SELECT ` + storyColumns + ` FROM stories
		WHERE owner_id = ? AND visited_date >= ? AND visited_date <= ?` +
		favouritesFirst
	return r.queryStories(ctx, q, ownerID, from.UTC(), to.UTC())
}

func (r *StorySQLite) queryStories(ctx context.Context, query string, args ...any) ([]models.Story, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Story, 0, 16)
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*models.Story, error) {
	var s models.Story
	var locations string
	if err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Title,
		&s.Story,
		&locations,
		&s.ImageURL,
		&s.VisitedDate,
		&s.IsFavourite,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	tags, err := unmarshalLocations(locations)
	if err != nil {
		return nil, err
	}
	s.VisitedLocation = tags
	s.VisitedDate = s.VisitedDate.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}
