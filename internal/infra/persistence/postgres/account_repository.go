// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// accountRepository implements repository.AccountRepository using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// AutoMigrate creates or updates the accounts table and its unique index.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	return errors.Wrap(db.WithContext(ctx).AutoMigrate(&model.AccountModel{}), "migrate accounts")
}

// FindByName retrieves a single account by its exact name.
func (repo *accountRepository) FindByName(ctx context.Context, name string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).Where("name = ?", name).First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by name")
	}

	return toAccountDomain(&accountM), nil
}

// Create inserts the account. The unique index rejects a concurrent duplicate.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrAccountAlreadyExists
		}

		return errors.Wrap(err, "failed to create account")
	}

	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update rewrites the mutable columns of the account identified by ID.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	now := time.Now().UTC()
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"name":          account.Name,
			"password_hash": account.PasswordHash,
			"job_title":     account.JobTitle,
			"updated_at":    now,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrAccountAlreadyExists
		}

		return errors.Wrap(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = now

	return nil
}

// DeleteByName removes the account with DELETE ... RETURNING so the lookup
// and removal are one statement.
func (repo *accountRepository) DeleteByName(ctx context.Context, name string) (*entity.Account, error) {
	var accountM model.AccountModel
	result := repo.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("name = ?", name).
		Delete(&accountM)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrAccountNotFound
	}

	return toAccountDomain(&accountM), nil
}

func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		Name:         data.Name,
		PasswordHash: data.PasswordHash,
		JobTitle:     data.JobTitle,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:           data.ID,
		Name:         data.Name,
		PasswordHash: data.PasswordHash,
		JobTitle:     data.JobTitle,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
