package persistence

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gatekeeper/config"
	"gatekeeper/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newParams(t *testing.T, driver string) RepositoryParams {
	cfg := &config.Config{}
	cfg.Store.Driver = driver

	return RepositoryParams{
		Lc:     fxtest.NewLifecycle(t),
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestNewAccountRepository_Memory(t *testing.T) {
	repo, err := NewAccountRepository(newParams(t, "memory"))
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), &entity.Account{Name: "alice", PasswordHash: "h"}))
	_, err = repo.FindByName(context.Background(), "alice")
	assert.NoError(t, err)
}

func TestNewAccountRepository_UnknownDriver(t *testing.T) {
	_, err := NewAccountRepository(newParams(t, "redis"))
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestNewAccountRepository_MongoWithoutConfig(t *testing.T) {
	_, err := NewAccountRepository(newParams(t, "mongo"))
	assert.Error(t, err)
}
