// Package presentation converts shows and registration trees into the JSON
// documents printed by the command line.
package presentation

import (
	"time"

	"github.com/zjrosen/ringside/internal/hierarchy"
	"github.com/zjrosen/ringside/internal/registration"
)

// ShowDTO represents a show for presentation
type ShowDTO struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Date          string `json:"date,omitempty" yaml:"date,omitempty"`
	Venue         string `json:"venue,omitempty" yaml:"venue,omitempty"`
	Registrations int    `json:"registrations" yaml:"registrations"`
}

// RegistrationDTO represents one registered dog
type RegistrationDTO struct {
	ID            string    `json:"id" yaml:"id"`
	DogID         string    `json:"dog_id" yaml:"dog_id"`
	DogName       string    `json:"dog" yaml:"dog"`
	Breed         string    `json:"breed,omitempty" yaml:"breed,omitempty"`
	FCIGroup      string    `json:"fci_group,omitempty" yaml:"fci_group,omitempty"`
	Class         string    `json:"class,omitempty" yaml:"class,omitempty"`
	Owner         string    `json:"owner,omitempty" yaml:"owner,omitempty"`
	CatalogNumber string    `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	RegisteredAt  time.Time `json:"registered_at" yaml:"registered_at"`
}

// NodeDTO represents a tree node. Groups carry children, leaves carry the
// registration.
type NodeDTO struct {
	ID           string           `json:"id" yaml:"id"`
	Kind         string           `json:"kind" yaml:"kind"`
	Label        string           `json:"label" yaml:"label"`
	Count        int              `json:"count" yaml:"count"`
	Expanded     bool             `json:"expanded" yaml:"expanded"`
	Level        string           `json:"level,omitempty" yaml:"level,omitempty"`
	Fallback     bool             `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Registration *RegistrationDTO `json:"registration,omitempty" yaml:"registration,omitempty"`
	Children     []NodeDTO        `json:"children,omitempty" yaml:"children,omitempty"`
}

// FromShows converts shows to DTOs.
func FromShows(shows []registration.Show) []ShowDTO {
	dtos := make([]ShowDTO, 0, len(shows))
	for _, s := range shows {
		dto := ShowDTO{
			ID:            s.ID,
			Name:          s.Name,
			Venue:         s.Venue,
			Registrations: s.Registrations,
		}
		if !s.Date.IsZero() {
			dto.Date = s.Date.Format(time.DateOnly)
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

// FromRegistration converts a registration to a DTO.
func FromRegistration(r registration.Registration) RegistrationDTO {
	return RegistrationDTO{
		ID:            r.ID,
		DogID:         r.DogID,
		DogName:       r.DogName,
		Breed:         r.Breed,
		FCIGroup:      r.FCIGroup,
		Class:         r.DogClass,
		Owner:         r.Owner,
		CatalogNumber: r.CatalogNumber,
		RegisteredAt:  r.RegisteredAt,
	}
}

// FromTree converts a tree to DTOs, including collapsed subtrees.
func FromTree(roots []*hierarchy.Node) []NodeDTO {
	dtos := make([]NodeDTO, 0, len(roots))
	for _, n := range roots {
		dtos = append(dtos, fromNode(n))
	}
	return dtos
}

func fromNode(n *hierarchy.Node) NodeDTO {
	dto := NodeDTO{
		ID:       n.ID,
		Kind:     n.Kind.String(),
		Label:    n.Label,
		Count:    n.Count,
		Expanded: n.Expanded,
	}
	switch p := n.Payload.(type) {
	case hierarchy.GroupKey:
		dto.Level = p.Level
		dto.Fallback = p.Fallback
	case registration.Registration:
		reg := FromRegistration(p)
		dto.Registration = &reg
	}
	if n.HasChildren() {
		dto.Children = FromTree(n.Children)
	}
	return dto
}
