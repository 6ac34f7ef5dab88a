package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/ringside/internal/log"
	"github.com/zjrosen/ringside/internal/registration"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const listByShowQuery = `
	SELECT r.id, r.show_id, r.dog_id, d.name, d.breed, d.fci_group, r.class,
		COALESCE(o.name, ''), r.catalog_number, r.registered_at
	FROM registrations r
	JOIN dogs d ON d.id = r.dog_id
	LEFT JOIN owners o ON o.id = d.owner_id
	WHERE r.show_id = ?
	ORDER BY r.registered_at, r.id`

const listShowsQuery = `
	SELECT s.id, s.name, s.venue, s.show_date, COUNT(r.id)
	FROM shows s
	LEFT JOIN registrations r ON r.show_id = s.id
	GROUP BY s.id
	ORDER BY s.show_date IS NULL, s.show_date DESC, s.id`

// registrationRepository implements registration.Repository using SQLite.
type registrationRepository struct {
	db *sql.DB
}

var _ registration.Repository = (*registrationRepository)(nil)

func newRegistrationRepository(db *sql.DB) *registrationRepository {
	return &registrationRepository{db: db}
}

// ListShows returns every show with its registration count.
func (r *registrationRepository) ListShows(ctx context.Context) ([]registration.Show, error) {
	rows, err := r.db.QueryContext(ctx, listShowsQuery)
	if err != nil {
		return nil, fmt.Errorf("querying shows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	shows := []registration.Show{}
	for rows.Next() {
		var m showModel
		if err := rows.Scan(&m.ID, &m.Name, &m.Venue, &m.Date, &m.Registrations); err != nil {
			return nil, fmt.Errorf("scanning show: %w", err)
		}
		shows = append(shows, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shows: %w", err)
	}
	return shows, nil
}

// ListByShow returns the registrations of a show in registration order.
func (r *registrationRepository) ListByShow(ctx context.Context, showID string) ([]registration.Registration, error) {
	rows, err := r.db.QueryContext(ctx, listByShowQuery, showID)
	if err != nil {
		return nil, fmt.Errorf("querying registrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	regs := []registration.Registration{}
	for rows.Next() {
		var m registrationModel
		if err := rows.Scan(
			&m.ID, &m.ShowID, &m.DogID, &m.DogName, &m.Breed, &m.FCIGroup, &m.Class,
			&m.Owner, &m.CatalogNumber, &m.RegisteredAt,
		); err != nil {
			return nil, fmt.Errorf("scanning registration: %w", err)
		}
		regs = append(regs, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registrations: %w", err)
	}
	return regs, nil
}

// Save upserts the show, owner and dog of reg, then reg itself.
func (r *registrationRepository) Save(ctx context.Context, reg registration.Registration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveRegistration(ctx, tx, reg); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing registration: %w", err)
	}
	return nil
}

// Delete removes one registration. The dog and show remain.
func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting registration: %w", err)
	}
	if n == 0 {
		return &registration.NotFoundError{Kind: "registration", ID: id}
	}
	return nil
}

// ImportBatch stores shows and registrations in a single transaction.
func (r *registrationRepository) ImportBatch(ctx context.Context, shows []registration.Show, regs []registration.Registration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, show := range shows {
		if err := saveShow(ctx, tx, show); err != nil {
			return err
		}
	}
	for i, reg := range regs {
		if err := saveRegistration(ctx, tx, reg); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	log.Debug(log.CatDB, "Imported batch", "shows", len(shows), "registrations", len(regs))
	return nil
}

func saveShow(ctx context.Context, ex execer, show registration.Show) error {
	m := toShowModel(show)
	_, err := ex.ExecContext(ctx,
		`INSERT INTO shows (id, name, venue, show_date) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, venue = excluded.venue, show_date = excluded.show_date`,
		m.ID, m.Name, m.Venue, m.Date,
	)
	if err != nil {
		return fmt.Errorf("saving show %s: %w", show.ID, err)
	}
	return nil
}

// ensureShow creates a placeholder show so a registration can reference it.
func ensureShow(ctx context.Context, ex execer, showID string) error {
	_, err := ex.ExecContext(ctx, `INSERT OR IGNORE INTO shows (id, name) VALUES (?, ?)`, showID, showID)
	if err != nil {
		return fmt.Errorf("saving show %s: %w", showID, err)
	}
	return nil
}

// ownerID returns the id of the named owner, creating it. A blank name has
// no owner row.
func ownerID(ctx context.Context, ex execer, name string) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if _, err := ex.ExecContext(ctx, `INSERT OR IGNORE INTO owners (name) VALUES (?)`, name); err != nil {
		return nil, fmt.Errorf("saving owner: %w", err)
	}
	var id int64
	err := ex.QueryRowContext(ctx, `SELECT id FROM owners WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &registration.NotFoundError{Kind: "owner", ID: name}
	}
	if err != nil {
		return nil, fmt.Errorf("looking up owner: %w", err)
	}
	return &id, nil
}

func saveRegistration(ctx context.Context, ex execer, reg registration.Registration) error {
	m := toRegistrationModel(reg)
	if err := ensureShow(ctx, ex, m.ShowID); err != nil {
		return err
	}
	owner, err := ownerID(ctx, ex, m.Owner)
	if err != nil {
		return err
	}
	if _, err := ex.ExecContext(ctx,
		`INSERT INTO dogs (id, name, breed, fci_group, owner_id) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, breed = excluded.breed,
			fci_group = excluded.fci_group, owner_id = excluded.owner_id`,
		m.DogID, m.DogName, m.Breed, m.FCIGroup, owner,
	); err != nil {
		return fmt.Errorf("saving dog %s: %w", m.DogID, err)
	}
	if _, err := ex.ExecContext(ctx,
		`INSERT INTO registrations (id, show_id, dog_id, class, catalog_number, registered_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET show_id = excluded.show_id, dog_id = excluded.dog_id,
			class = excluded.class, catalog_number = excluded.catalog_number,
			registered_at = excluded.registered_at`,
		m.ID, m.ShowID, m.DogID, m.Class, m.CatalogNumber, m.RegisteredAt,
	); err != nil {
		return fmt.Errorf("saving registration %s: %w", m.ID, err)
	}
	return nil
}
