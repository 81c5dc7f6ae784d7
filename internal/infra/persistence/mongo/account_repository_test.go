package mongo

import (
	"context"
	"testing"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func accountDoc(id uuid.UUID, name string) bson.D {
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "name", Value: name},
		{Key: "passwordHash", Value: "hash"},
		{Key: "jobTitle", Value: "engineer"},
	}
}

func TestAccountRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find by name", func(mt *mtest.T) {
		id := uuid.New()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, accountDoc(id, "alice")))

		account, err := NewAccountRepository(mt.Coll).FindByName(ctx, "alice")
		require.NoError(mt, err)
		assert.Equal(mt, id, account.ID)
		assert.Equal(mt, "alice", account.Name)
		assert.Equal(mt, "engineer", account.JobTitleOrEmpty())
	})

	mt.Run("find by name not found", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewAccountRepository(mt.Coll).FindByName(ctx, "nobody")
		assert.ErrorIs(mt, err, repository.ErrAccountNotFound)
	})

	mt.Run("find by name store error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    91,
			Name:    "ShutdownInProgress",
			Message: "shutting down",
		}))

		_, err := NewAccountRepository(mt.Coll).FindByName(ctx, "alice")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, repository.ErrAccountNotFound)
	})

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		account := &entity.Account{Name: "alice", PasswordHash: "hash"}
		require.NoError(mt, NewAccountRepository(mt.Coll).Create(ctx, account))
		assert.NotEqual(mt, uuid.Nil, account.ID)
		assert.False(mt, account.CreatedAt.IsZero())
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: Users.users index: name_unique",
		}))

		err := NewAccountRepository(mt.Coll).Create(ctx, &entity.Account{Name: "alice", PasswordHash: "hash"})
		assert.ErrorIs(mt, err, repository.ErrAccountAlreadyExists)
	})

	mt.Run("update", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := NewAccountRepository(mt.Coll).Update(ctx, &entity.Account{ID: uuid.New(), Name: "alicia"})
		assert.NoError(mt, err)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewAccountRepository(mt.Coll).Update(ctx, &entity.Account{ID: uuid.New(), Name: "alicia"})
		assert.ErrorIs(mt, err, repository.ErrAccountNotFound)
	})

	mt.Run("delete by name", func(mt *mtest.T) {
		id := uuid.New()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: accountDoc(id, "alice")},
		))

		account, err := NewAccountRepository(mt.Coll).DeleteByName(ctx, "alice")
		require.NoError(mt, err)
		assert.Equal(mt, id, account.ID)
	})

	mt.Run("delete by name missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: nil},
		))

		_, err := NewAccountRepository(mt.Coll).DeleteByName(ctx, "alice")
		assert.ErrorIs(mt, err, repository.ErrAccountNotFound)
	})
}
