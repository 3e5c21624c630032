package models

import "time"

// Story is one travel-journal entry. A story belongs to exactly one user;
// every lookup filters on OwnerID together with ID.
type Story struct {
	ID              string    `json:"id"`
	OwnerID         int       `json:"-"`
	Title           string    `json:"title"`
	Story           string    `json:"story"`
	VisitedLocation []string  `json:"visitedLocation"`
	ImageURL        string    `json:"imageUrl"`
	VisitedDate     time.Time `json:"visitedDate"`
	IsFavourite     bool      `json:"isFavourite"`
	CreatedAt       time.Time `json:"createdAt"`
}
