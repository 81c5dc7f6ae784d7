// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"gatekeeper/internal/domain/entity"
)

var (
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists is returned when a write would break name uniqueness.
	ErrAccountAlreadyExists = errors.New("account already exists")
)

// AccountRepository persists accounts keyed by their unique name.
// Name matching is exact: no case folding and no trimming.
type AccountRepository interface {
	// FindByName retrieves the account with exactly this name.
	FindByName(ctx context.Context, name string) (*entity.Account, error)

	// Create inserts a new account. A name collision yields ErrAccountAlreadyExists.
	Create(ctx context.Context, account *entity.Account) error

	// Update rewrites name, job title and password hash of the account with account.ID.
	Update(ctx context.Context, account *entity.Account) error

	// DeleteByName removes the named account in a single store operation and returns it.
	DeleteByName(ctx context.Context, name string) (*entity.Account, error)
}
