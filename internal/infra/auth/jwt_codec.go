package auth

import (
	"time"

	"gatekeeper/config"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// tokenClaims is the JWT payload. Only name and, optionally, iat are set.
type tokenClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// jwtCodec is a TokenCodec signing HS256 JWTs with a single process-wide secret.
type jwtCodec struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewJWTCodec builds the codec from the token secret and auth.tokenMaxAge.
func NewJWTCodec(cfg *config.Config) (service.TokenCodec, error) {
	var maxAge time.Duration
	if cfg.Auth != nil {
		maxAge = cfg.Auth.TokenMaxAge
	}

	return NewJWTCodecWithSecret([]byte(cfg.SecretKey.Token), maxAge)
}

// NewJWTCodecWithSecret returns a codec for secret. A positive maxAge makes
// tokens without iat, or with an older iat, fail to decode.
func NewJWTCodecWithSecret(secret []byte, maxAge time.Duration) (service.TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must be provided")
	}

	return &jwtCodec{
		secret: append([]byte(nil), secret...),
		maxAge: maxAge,
		now:    time.Now,
	}, nil
}

// Encode signs claims into a compact JWT.
func (c *jwtCodec) Encode(claims entity.Claims) (string, error) {
	if claims.Name == "" {
		return "", errors.New("token claims need a name")
	}

	payload := tokenClaims{Name: claims.Name}
	if !claims.IssuedAt.IsZero() {
		payload.IssuedAt = jwt.NewNumericDate(claims.IssuedAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}

// Decode verifies the signature and returns the claims. Malformed, tampered,
// foreign-secret and over-age tokens all yield the same ErrInvalidToken.
func (c *jwtCodec) Decode(token string) (*entity.Claims, error) {
	parsed := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, parsed, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("parse token")
	}

	if parsed.Name == "" {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("token has no name")
	}

	if c.maxAge > 0 {
		if parsed.IssuedAt == nil || c.now().Sub(parsed.IssuedAt.Time) > c.maxAge {
			return nil, domainerrors.ErrInvalidToken.WrapMessage("token too old")
		}
	}

	claims := &entity.Claims{Name: parsed.Name}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}

	return claims, nil
}

func (c *jwtCodec) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrSignatureInvalid
	}

	return c.secret, nil
}
