// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "context"

// --- Input DTOs ---
//
// Fields that come straight from a request body are typed as any: a caller may
// send a structured value where a string is expected, and it has to reach the
// sanitizer and validator as sent.

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     any
	Password any
	JobTitle any
}

// AuthenticateInput defines the credentials presented at login.
type AuthenticateInput struct {
	Name     any
	Password any
}

// InspectInput identifies the account by its bearer token.
type InspectInput struct {
	Token string
}

// ModifyInput carries the optional replacement values for an account.
// Absent or empty values leave the stored field untouched.
type ModifyInput struct {
	Token       string
	NewName     any
	NewJobTitle any
}

// DeleteInput requires an explicit confirmation before anything is removed.
type DeleteInput struct {
	Token   string
	Confirm bool
}

// --- Output DTOs ---

// AuthenticateOutput returns the token issued on a successful login.
type AuthenticateOutput struct {
	Token string
}

// AccountOutput is the public view of an account plus the token the caller
// should keep using.
type AccountOutput struct {
	Name     string
	JobTitle string
	Token    string
}

// AccountUsecase defines the account lifecycle operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) error
	Authenticate(ctx context.Context, input *AuthenticateInput) (*AuthenticateOutput, error)
	Inspect(ctx context.Context, input *InspectInput) (*AccountOutput, error)
	Modify(ctx context.Context, input *ModifyInput) (*AccountOutput, error)
	Delete(ctx context.Context, input *DeleteInput) error
}
