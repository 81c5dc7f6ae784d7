package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/infra/auth"
	"gatekeeper/internal/infra/persistence/memory"
	"gatekeeper/internal/usecase"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-for-account-service")

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// accountServiceFixtures holds the service under test and its collaborators.
type accountServiceFixtures struct {
	service usecase.AccountUsecase
	repo    repository.AccountRepository
	codec   service.TokenCodec
}

// createTestAccountService wires the service to the in-memory store, a cheap
// bcrypt cost and a real JWT codec. A nil repo selects the in-memory store.
func createTestAccountService(t *testing.T, repo repository.AccountRepository, publisher service.EventPublisher) accountServiceFixtures {
	t.Helper()

	if repo == nil {
		repo = memory.NewAccountRepository()
	}
	codec, err := auth.NewJWTCodecWithSecret(testSecret, 0)
	require.NoError(t, err)

	svc := NewAccountService(AccountServiceParams{
		AccountRepo: repo,
		Hasher:      auth.NewBcryptHasherWithCost(4),
		Codec:       codec,
		Publisher:   publisher,
		Logger:      newDiscardLogger(),
	})

	return accountServiceFixtures{service: svc, repo: repo, codec: codec}
}

// fixedClock pins the service clock so issued tokens are deterministic.
func fixedClock(svc usecase.AccountUsecase, at time.Time) {
	svc.(*accountService).now = func() time.Time { return at }
}
