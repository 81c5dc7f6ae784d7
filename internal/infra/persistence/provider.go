// Package persistence selects the account store backend from configuration.
package persistence

import (
	"context"
	"log/slog"

	"gatekeeper/config"
	"gatekeeper/internal/domain/constants"
	"gatekeeper/internal/domain/lifecycle"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/infra/persistence/memory"
	"gatekeeper/internal/infra/persistence/mongo"
	"gatekeeper/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// RepositoryParams holds dependencies for AccountRepository, injected by Fx
type RepositoryParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewAccountRepository builds only the backend named by store.driver.
func NewAccountRepository(params RepositoryParams) (repository.AccountRepository, error) {
	driver := params.Config.Store.Driver
	logger := params.Logger.With(slog.String("store", driver))

	switch driver {
	case constants.StoreDriverMemory, "":
		logger.Warn("Using in-memory account store, accounts are lost on restart")

		return memory.NewAccountRepository(), nil

	case constants.StoreDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lc,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}

		params.Lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
				defer cancel()

				logger.Info("Migrating accounts table")

				return postgres.AutoMigrate(ctx, db)
			},
		})

		return postgres.NewAccountRepository(db), nil

	case constants.StoreDriverMongo:
		client, err := mongo.New(mongo.Params{
			Lifecycle: params.Lc,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}
		coll := mongo.Collection(client, params.Config.Mongo)

		params.Lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
				defer cancel()

				logger.Info("Ensuring account indexes")

				return mongo.EnsureIndexes(ctx, coll)
			},
		})

		return mongo.NewAccountRepository(coll), nil

	default:
		return nil, errors.Errorf("unknown store driver: %s", driver)
	}
}
