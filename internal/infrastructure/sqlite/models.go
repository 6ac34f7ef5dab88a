package sqlite

import (
	"time"

	"github.com/zjrosen/ringside/internal/registration"
)

// registrationModel is one row of the registration listing query, joined
// with its dog and owner. Times are Unix seconds.
type registrationModel struct {
	ID            string
	ShowID        string
	DogID         string
	DogName       string
	Breed         string
	FCIGroup      string
	Class         string
	Owner         string
	CatalogNumber string
	RegisteredAt  int64
}

func (m registrationModel) toDomain() registration.Registration {
	return registration.Registration{
		ID:            m.ID,
		ShowID:        m.ShowID,
		DogID:         m.DogID,
		DogName:       m.DogName,
		Breed:         m.Breed,
		FCIGroup:      m.FCIGroup,
		DogClass:      m.Class,
		Owner:         m.Owner,
		CatalogNumber: m.CatalogNumber,
		RegisteredAt:  time.Unix(m.RegisteredAt, 0).UTC(),
	}
}

func toRegistrationModel(r registration.Registration) registrationModel {
	return registrationModel{
		ID:            r.ID,
		ShowID:        r.ShowID,
		DogID:         r.DogID,
		DogName:       r.DogName,
		Breed:         r.Breed,
		FCIGroup:      r.FCIGroup,
		Class:         r.DogClass,
		Owner:         r.Owner,
		CatalogNumber: r.CatalogNumber,
		RegisteredAt:  r.RegisteredAt.Unix(),
	}
}

// showModel is a row of the show listing query.
type showModel struct {
	ID            string
	Name          string
	Venue         string
	Date          *int64 // nullable
	Registrations int
}

func (m showModel) toDomain() registration.Show {
	s := registration.Show{
		ID:            m.ID,
		Name:          m.Name,
		Venue:         m.Venue,
		Registrations: m.Registrations,
	}
	if m.Date != nil {
		s.Date = time.Unix(*m.Date, 0).UTC()
	}
	return s
}

func toShowModel(s registration.Show) showModel {
	m := showModel{ID: s.ID, Name: s.Name, Venue: s.Venue}
	if m.Name == "" {
		m.Name = s.ID
	}
	if !s.Date.IsZero() {
		d := s.Date.Unix()
		m.Date = &d
	}
	return m
}
