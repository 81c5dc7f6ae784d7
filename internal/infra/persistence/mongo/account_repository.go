package mongo

import (
	"context"
	"time"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mongoDriver "go.mongodb.org/mongo-driver/mongo"
)

type accountDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	PasswordHash string    `bson:"passwordHash"`
	JobTitle     *string   `bson:"jobTitle"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type accountRepository struct {
	coll *mongoDriver.Collection
}

// NewAccountRepository wraps a collection. Filters are built from typed Go
// strings, so a name can never carry query operators.
func NewAccountRepository(coll *mongoDriver.Collection) repository.AccountRepository {
	return &accountRepository{coll: coll}
}

func (repo *accountRepository) FindByName(ctx context.Context, name string) (*entity.Account, error) {
	var doc accountDocument
	err := repo.coll.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongoDriver.ErrNoDocuments) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by name")
	}

	return doc.toDomain()
}

func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	account.CreatedAt = now
	account.UpdatedAt = now

	if _, err := repo.coll.InsertOne(ctx, fromDomain(account)); err != nil {
		if mongoDriver.IsDuplicateKeyError(err) {
			return repository.ErrAccountAlreadyExists
		}

		return errors.Wrap(err, "failed to create account")
	}

	return nil
}

func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := repo.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: account.ID.String()}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: account.Name},
			{Key: "passwordHash", Value: account.PasswordHash},
			{Key: "jobTitle", Value: account.JobTitle},
			{Key: "updatedAt", Value: now},
		}}},
	)
	if err != nil {
		if mongoDriver.IsDuplicateKeyError(err) {
			return repository.ErrAccountAlreadyExists
		}

		return errors.Wrap(err, "failed to update account")
	}
	if result.MatchedCount == 0 {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = now

	return nil
}

func (repo *accountRepository) DeleteByName(ctx context.Context, name string) (*entity.Account, error) {
	var doc accountDocument
	err := repo.coll.FindOneAndDelete(ctx, bson.D{{Key: "name", Value: name}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongoDriver.ErrNoDocuments) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to delete account")
	}

	return doc.toDomain()
}

func (doc *accountDocument) toDomain() (*entity.Account, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "account %q has a malformed id", doc.Name)
	}

	return &entity.Account{
		ID:           id,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		JobTitle:     doc.JobTitle,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func fromDomain(account *entity.Account) *accountDocument {
	return &accountDocument{
		ID:           account.ID.String(),
		Name:         account.Name,
		PasswordHash: account.PasswordHash,
		JobTitle:     account.JobTitle,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
}
