package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/ringside/internal/registration"
)

// Builder accumulates shows and registrations and stores them in one batch.
type Builder struct {
	t     *testing.T
	repo  registration.Repository
	show  string
	shows []registration.Show
	regs  []registration.Registration
}

// NewBuilder creates a builder writing to repo.
func NewBuilder(t *testing.T, repo registration.Repository) *Builder {
	t.Helper()
	return &Builder{t: t, repo: repo}
}

// WithShow adds a show. Later registrations belong to it.
func (b *Builder) WithShow(id, name string, date time.Time) *Builder {
	b.shows = append(b.shows, registration.Show{ID: id, Name: name, Date: date})
	b.show = id
	return b
}

// WithRegistration adds a registration to the current show. The dog id and
// name default to name.
func (b *Builder) WithRegistration(id, name string, opts ...RegistrationOption) *Builder {
	reg := registration.Registration{
		ID:           id,
		ShowID:       b.show,
		DogID:        name,
		DogName:      name,
		RegisteredAt: BaseTime.Add(time.Duration(len(b.regs)) * time.Minute),
	}
	for _, opt := range opts {
		opt(&reg)
	}
	b.regs = append(b.regs, reg)
	return b
}

// Registrations returns what has been added so far.
func (b *Builder) Registrations() []registration.Registration {
	return b.regs
}

// Build stores everything.
func (b *Builder) Build() []registration.Registration {
	b.t.Helper()
	require.NoError(b.t, b.repo.ImportBatch(context.Background(), b.shows, b.regs))
	return b.regs
}
