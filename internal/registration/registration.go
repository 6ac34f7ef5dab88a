// Package registration holds the dog-show registration domain: the records
// loaded from the database, the grouping levels the tree is built from, and
// the service that loads and caches them.
package registration

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Registration is one dog entered in one show.
type Registration struct {
	ID            string
	ShowID        string
	DogID         string
	DogName       string
	Breed         string
	FCIGroup      string
	DogClass      string
	Owner         string
	CatalogNumber string
	RegisteredAt  time.Time
}

// Validate reports the first missing required field.
func (r Registration) Validate() error {
	switch {
	case strings.TrimSpace(r.ShowID) == "":
		return fmt.Errorf("registration %q: show id is required", r.ID)
	case strings.TrimSpace(r.DogName) == "":
		return fmt.Errorf("registration %q: dog name is required", r.ID)
	}
	return nil
}

// Show is a show with the number of dogs registered for it.
type Show struct {
	ID            string
	Name          string
	Date          time.Time
	Venue         string
	Registrations int
}

// Repository persists registrations.
type Repository interface {
	// ListShows returns every show ordered by date, newest first.
	ListShows(ctx context.Context) ([]Show, error)

	// ListByShow returns the registrations of one show ordered by
	// registration time. An unknown show yields an empty list.
	ListByShow(ctx context.Context, showID string) ([]Registration, error)

	// Save inserts or updates a registration together with its show,
	// owner and dog.
	Save(ctx context.Context, reg Registration) error

	// Delete removes a registration. Returns NotFoundError if it does not
	// exist.
	Delete(ctx context.Context, id string) error

	// ImportBatch saves shows and registrations in one transaction. Either
	// all are stored or none. Shows referenced by a registration but not
	// listed are created with their id as name.
	ImportBatch(ctx context.Context, shows []Show, regs []Registration) error
}

// NotFoundError is returned when a registration or show does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
