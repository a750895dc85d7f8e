package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants for imported people.
const (
	PersonRoleAdmin    = "admin"
	PersonRoleProducer = "producer"
	PersonRoleCrew     = "crew"
)

// Person is one imported account with its derived profile. Settings holds
// the profile attributes that have no dedicated column, keyed by their
// source attribute name.
type Person struct {
	ID           uuid.UUID         `json:"id"`
	LegacyID     int64             `json:"legacy_id"`
	Login        string            `json:"login"`
	Email        string            `json:"email"`
	DisplayName  string            `json:"display_name"`
	Slug         string            `json:"slug"`
	Role         string            `json:"role"` // 'admin', 'producer', 'crew'
	Phone        string            `json:"phone,omitempty"`
	Location     string            `json:"location,omitempty"`
	Bio          string            `json:"bio,omitempty"`
	WebsiteURL   string            `json:"website_url,omitempty"`
	Settings     map[string]string `json:"settings,omitempty"`
	RegisteredAt time.Time         `json:"registered_at"`
	CreatedAt    time.Time         `json:"created_at"`
}

// DeriveRole maps the legacy role names of an account to the target role
// tag. Administrator wins when several roles are present; anything that is
// neither administrator nor producer is crew.
func DeriveRole(legacyRoles []string) string {
	role := PersonRoleCrew
	for _, r := range legacyRoles {
		switch r {
		case "administrator":
			return PersonRoleAdmin
		case "producer":
			role = PersonRoleProducer
		}
	}
	return role
}
