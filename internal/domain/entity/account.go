// Package entity contains the core domain models of the application.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered credential holder. Name is the unique lookup key.
type Account struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	JobTitle     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobTitleOrEmpty returns the job title, or "" when none is set.
func (a *Account) JobTitleOrEmpty() string {
	if a.JobTitle == nil {
		return ""
	}

	return *a.JobTitle
}

// Claims is the payload carried inside a session token.
// A zero IssuedAt means the token carries no issued-at time.
type Claims struct {
	Name     string
	IssuedAt time.Time
}
