package service

import "gatekeeper/internal/domain/entity"

// TokenCodec turns claims into an opaque signed token and back.
type TokenCodec interface {
	// Encode signs the claims into a token string.
	Encode(claims entity.Claims) (string, error)

	// Decode verifies a token and returns its claims.
	// Every failure is reported as domain errors.ErrInvalidToken.
	Decode(token string) (*entity.Claims, error)
}
