package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/account-service/internal/domain"
)

// memoryRepository is a map-backed AccountRepository used in tests and
// local development without Postgres.
type memoryRepository struct {
	mu       sync.RWMutex
	byID     map[string]domain.Account
	idByMail map[string]string
}

// NewMemoryRepository returns an in-memory AccountRepository.
func NewMemoryRepository() AccountRepository {
	return &memoryRepository{
		byID:     make(map[string]domain.Account),
		idByMail: make(map[string]string),
	}
}

func (r *memoryRepository) Add(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.idByMail[account.Email]; exists {
		return ErrDuplicateEmail
	}

	now := time.Now()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.byID[account.ID] = *account
	r.idByMail[account.Email] = account.ID
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByMail[email]
	if !ok {
		return nil, ErrNotFound
	}
	account := r.byID[id]
	return &account, nil
}

func (r *memoryRepository) Save(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[account.ID]
	if !ok {
		return ErrNotFound
	}
	if existing.Email != account.Email {
		delete(r.idByMail, existing.Email)
		r.idByMail[account.Email] = account.ID
	}

	account.UpdatedAt = time.Now()
	r.byID[account.ID] = *account
	return nil
}
