package testutil

import (
	"time"

	"github.com/zjrosen/ringside/internal/registration"
)

// BaseTime is the registration time of the first fixture entry. Each later
// entry is one minute after the previous one unless RegisteredAt is set.
var BaseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// RegistrationOption configures a fixture registration.
type RegistrationOption func(*registration.Registration)

// Dog sets the dog id.
func Dog(id string) RegistrationOption {
	return func(r *registration.Registration) { r.DogID = id }
}

// Name sets the dog name.
func Name(name string) RegistrationOption {
	return func(r *registration.Registration) { r.DogName = name }
}

// Breed sets the breed and its FCI group.
func Breed(breed, fciGroup string) RegistrationOption {
	return func(r *registration.Registration) {
		r.Breed = breed
		r.FCIGroup = fciGroup
	}
}

// Class sets the competition class.
func Class(class string) RegistrationOption {
	return func(r *registration.Registration) { r.DogClass = class }
}

// Owner sets the owner name.
func Owner(name string) RegistrationOption {
	return func(r *registration.Registration) { r.Owner = name }
}

// Catalog sets the catalog number.
func Catalog(number string) RegistrationOption {
	return func(r *registration.Registration) { r.CatalogNumber = number }
}

// RegisteredAt sets the registration time.
func RegisteredAt(at time.Time) RegistrationOption {
	return func(r *registration.Registration) { r.RegisteredAt = at }
}
