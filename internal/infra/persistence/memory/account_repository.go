// Package memory keeps accounts in process memory. Data is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/repository"

	"github.com/google/uuid"
)

type accountRepository struct {
	mu     sync.RWMutex
	byName map[string]*entity.Account
}

// NewAccountRepository returns an empty in-memory store.
func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{byName: make(map[string]*entity.Account)}
}

func (repo *accountRepository) FindByName(_ context.Context, name string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	account, ok := repo.byName[name]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return clone(account), nil
}

func (repo *accountRepository) Create(_ context.Context, account *entity.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.byName[account.Name]; exists {
		return repository.ErrAccountAlreadyExists
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	repo.byName[account.Name] = clone(account)

	return nil
}

func (repo *accountRepository) Update(_ context.Context, account *entity.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var current *entity.Account
	for _, stored := range repo.byName {
		if stored.ID == account.ID {
			current = stored

			break
		}
	}
	if current == nil {
		return repository.ErrAccountNotFound
	}

	if other, exists := repo.byName[account.Name]; exists && other.ID != account.ID {
		return repository.ErrAccountAlreadyExists
	}

	account.CreatedAt = current.CreatedAt
	account.UpdatedAt = time.Now().UTC()

	delete(repo.byName, current.Name)
	repo.byName[account.Name] = clone(account)

	return nil
}

func (repo *accountRepository) DeleteByName(_ context.Context, name string) (*entity.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	account, ok := repo.byName[name]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	delete(repo.byName, name)

	return account, nil
}

func clone(account *entity.Account) *entity.Account {
	copied := *account
	if account.JobTitle != nil {
		title := *account.JobTitle
		copied.JobTitle = &title
	}

	return &copied
}
