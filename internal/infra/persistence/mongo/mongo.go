// Package mongo stores accounts in a MongoDB collection, the document
// layout being {_id, name, passwordHash, jobTitle}.
package mongo

import (
	"context"
	"log/slog"

	"gatekeeper/config"
	"gatekeeper/internal/domain/lifecycle"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mongoDriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
)

const nameIndex = "name_unique"

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New connects a client, pings it on start and disconnects on stop.
func New(params Params) (*mongoDriver.Client, error) {
	cfg := params.Config.Mongo
	if cfg == nil {
		return nil, errors.New("mongo config is required")
	}

	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		clientOpts.SetTimeout(cfg.Timeout)
	}

	// Connect does not dial; the first operation or the ping below does.
	client, err := mongoDriver.Connect(context.Background(), clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return errors.Wrap(err, "failed to ping MongoDB")
			}
			params.Logger.Info("MongoDB connected",
				slog.String("database", cfg.Database),
				slog.String("collection", cfg.Collection),
			)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return errors.WithStack(client.Disconnect(ctx))
		},
	})

	return client, nil
}

// Collection returns the configured accounts collection.
func Collection(client *mongoDriver.Client, cfg *config.MongoConfig) *mongoDriver.Collection {
	return client.Database(cfg.Database).Collection(cfg.Collection)
}

// EnsureIndexes creates the unique index on name if it is missing.
func EnsureIndexes(ctx context.Context, coll *mongoDriver.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongoDriver.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(nameIndex),
	})

	return errors.Wrap(err, "failed to create name index")
}
