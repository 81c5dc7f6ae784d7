package auth

import (
	"testing"
	"time"

	"gatekeeper/config"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test_token_secret_key_very_long_for_testing")

func newTestCodec(t *testing.T, maxAge time.Duration) *jwtCodec {
	t.Helper()

	codec, err := NewJWTCodecWithSecret(testSecret, maxAge)
	require.NoError(t, err)

	return codec.(*jwtCodec)
}

func TestJWTCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t, 0)

	tests := []entity.Claims{
		{Name: "alice"},
		{Name: "名前"},
		{Name: "bob", IssuedAt: time.Unix(1_700_000_000, 0).UTC()},
	}

	for _, claims := range tests {
		t.Run(claims.Name, func(t *testing.T) {
			token, err := codec.Encode(claims)
			require.NoError(t, err)

			got, err := codec.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, claims.Name, got.Name)
			assert.True(t, claims.IssuedAt.Equal(got.IssuedAt), "issued at %v != %v", claims.IssuedAt, got.IssuedAt)
		})
	}
}

func TestJWTCodec_WrongSecret(t *testing.T) {
	codec := newTestCodec(t, 0)
	other, err := NewJWTCodecWithSecret([]byte("another_secret"), 0)
	require.NoError(t, err)

	token, err := codec.Encode(entity.Claims{Name: "alice"})
	require.NoError(t, err)

	_, err = other.Decode(token)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestJWTCodec_SingleCharacterMutation(t *testing.T) {
	codec := newTestCodec(t, 0)

	token, err := codec.Encode(entity.Claims{Name: "alice"})
	require.NoError(t, err)

	for i := range len(token) {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		mutated := token[:i] + string(replacement) + token[i+1:]

		_, err := codec.Decode(mutated)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken, "mutation at %d accepted", i)
	}
}

func TestJWTCodec_Malformed(t *testing.T) {
	codec := newTestCodec(t, 0)

	for _, token := range []string{"", "abc", "a.b", "a.b.c", "...."} {
		_, err := codec.Decode(token)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken, "token %q", token)
	}
}

func TestJWTCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec := newTestCodec(t, 0)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{Name: "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, tokenClaims{Name: "alice"}).SignedString(testSecret)
	require.NoError(t, err)

	for _, token := range []string{unsigned, hs512} {
		_, err := codec.Decode(token)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	}
}

func TestJWTCodec_EmptyName(t *testing.T) {
	codec := newTestCodec(t, 0)

	_, err := codec.Encode(entity.Claims{})
	assert.Error(t, err)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{}).SignedString(testSecret)
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestJWTCodec_MaxAge(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	issued := time.Unix(1_700_000_000, 0).UTC()

	fresh, err := codec.Encode(entity.Claims{Name: "alice", IssuedAt: issued})
	require.NoError(t, err)
	noIat, err := codec.Encode(entity.Claims{Name: "alice"})
	require.NoError(t, err)

	codec.now = func() time.Time { return issued.Add(30 * time.Minute) }
	_, err = codec.Decode(fresh)
	assert.NoError(t, err)

	_, err = codec.Decode(noIat)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	codec.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = codec.Decode(fresh)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestNewJWTCodec(t *testing.T) {
	_, err := NewJWTCodec(&config.Config{})
	assert.Error(t, err)

	cfg := &config.Config{Auth: &config.AuthConfig{TokenMaxAge: time.Minute}}
	cfg.SecretKey.Token = "secret"

	codec, err := NewJWTCodec(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, codec.(*jwtCodec).maxAge)
}
