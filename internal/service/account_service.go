package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/repository"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// AccountService coordinates signup, login and password-change flows.
type AccountService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	dispatcher events.Dispatcher
}

// AccountDependencies encapsulates collaborator requirements.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		accounts:   deps.AccountRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		dispatcher: deps.Dispatcher,
	}
}

// Signup registers a new account and issues its first token. Either the
// account is persisted and a token returned, or nothing is persisted.
func (s *AccountService) Signup(ctx context.Context, email, password, role string) (*domain.Account, string, time.Time, error) {
	parsedRole, ok := domain.ParseRole(role)
	if !ok {
		return nil, "", time.Time{}, apperrors.NewInvalidRole(role)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         parsedRole,
	}
	if err := s.accounts.Add(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
		}
		return nil, "", time.Time{}, apperrors.NewStoreUnavailable(err)
	}

	token, exp, err := s.tokenMgr.Issue(account.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventAccountRegistered, account.ID, events.AccountRegisteredPayload{
		Email: account.Email,
		Role:  account.Role,
	})
	return account, token, exp, nil
}

// Login authenticates an account by email and password.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewNotFound("account", nil)
		}
		return nil, "", time.Time{}, apperrors.NewStoreUnavailable(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewWrongCredentials()
	}

	token, exp, err := s.tokenMgr.Issue(account.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventAccountLoggedIn, account.ID, events.AccountLoggedInPayload{Email: account.Email})
	return account, token, exp, nil
}

// ChangePassword re-verifies the old password before persisting a new
// hash and issuing a fresh token. The identity comes in as an explicit
// parameter, supplied by the auth middleware.
func (s *AccountService) ChangePassword(ctx context.Context, account *domain.Account, oldPassword, newPassword string) (*domain.Account, string, time.Time, error) {
	if err := auth.ComparePassword(account.PasswordHash, oldPassword); err != nil {
		return nil, "", time.Time{}, apperrors.NewWrongCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	updated := *account
	updated.PasswordHash = hash
	if err := s.accounts.Save(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewNotFound("account", nil)
		}
		return nil, "", time.Time{}, apperrors.NewStoreUnavailable(err)
	}

	token, exp, err := s.tokenMgr.Issue(updated.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventPasswordChanged, updated.ID, nil)
	return &updated, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, accountID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		AccountID: accountID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
