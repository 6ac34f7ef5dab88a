package registration

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// importFile is the YAML layout accepted by DecodeImport:
//
//	shows:
//	  - id: spring-classic
//	    name: Spring Classic
//	    date: 2026-04-12
//	registrations:
//	  - show: spring-classic
//	    dog: Rex
//	    class: open
type importFile struct {
	Shows         []importShow         `yaml:"shows"`
	Registrations []importRegistration `yaml:"registrations"`
}

type importShow struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Date  string `yaml:"date"`
	Venue string `yaml:"venue"`
}

type importRegistration struct {
	ID           string    `yaml:"id"`
	Show         string    `yaml:"show"`
	DogID        string    `yaml:"dog_id"`
	Dog          string    `yaml:"dog"`
	Breed        string    `yaml:"breed"`
	FCIGroup     string    `yaml:"fci_group"`
	Class        string    `yaml:"class"`
	Owner        string    `yaml:"owner"`
	Catalog      string    `yaml:"catalog"`
	RegisteredAt time.Time `yaml:"registered_at"`
}

// DecodeImport reads shows and registrations from YAML. Unknown keys are an
// error. A registration without a show belongs to the only show listed, if
// there is exactly one.
func DecodeImport(r io.Reader) ([]Show, []Registration, error) {
	var file importFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("import file is empty")
		}
		return nil, nil, fmt.Errorf("decoding import file: %w", err)
	}

	shows := make([]Show, 0, len(file.Shows))
	for i, s := range file.Shows {
		show := Show{ID: strings.TrimSpace(s.ID), Name: s.Name, Venue: s.Venue}
		if s.Date != "" {
			date, err := time.Parse(time.DateOnly, s.Date)
			if err != nil {
				return nil, nil, fmt.Errorf("show %d: date %q must be YYYY-MM-DD", i+1, s.Date)
			}
			show.Date = date
		}
		shows = append(shows, show)
	}

	defaultShow := ""
	if len(shows) == 1 {
		defaultShow = shows[0].ID
	}
	regs := make([]Registration, 0, len(file.Registrations))
	for _, r := range file.Registrations {
		show := r.Show
		if show == "" {
			show = defaultShow
		}
		regs = append(regs, Registration{
			ID:            r.ID,
			ShowID:        show,
			DogID:         r.DogID,
			DogName:       r.Dog,
			Breed:         r.Breed,
			FCIGroup:      r.FCIGroup,
			DogClass:      r.Class,
			Owner:         r.Owner,
			CatalogNumber: r.Catalog,
			RegisteredAt:  r.RegisteredAt.UTC(),
		})
	}
	return shows, regs, nil
}
