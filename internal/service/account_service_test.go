package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/repository"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

type capturingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

func newService(t *testing.T) (*service.AccountService, repository.AccountRepository, *capturingDispatcher) {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
	repo := repository.NewMemoryRepository()
	dispatcher := &capturingDispatcher{}
	svc := service.NewAccountService(cfg, service.AccountDependencies{
		AccountRepo: repo,
		Dispatcher:  dispatcher,
	})
	return svc, repo, dispatcher
}

func TestSignup_IssuesVerifiableToken(t *testing.T) {
	svc, repo, dispatcher := newService(t)
	ctx := context.Background()

	account, token, exp, err := svc.Signup(ctx, "a@x.com", "pw1", "ROLE_USER")
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.False(t, exp.IsZero())

	subject, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, subject)

	stored, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, stored.ID)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "pw1"))

	assert.Equal(t, []events.EventType{events.EventAccountRegistered}, dispatcher.types())
}

func TestSignup_InvalidRolePersistsNothing(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	_, _, _, err := svc.Signup(ctx, "a@x.com", "pw1", "ROLE_WIZARD")
	assert.True(t, apperrors.HasCode(err, "INVALID_ROLE"))

	_, err = repo.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSignup_DuplicateEmailConflict(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	first, _, _, err := svc.Signup(ctx, "a@x.com", "pw1", "ROLE_USER")
	require.NoError(t, err)

	_, _, _, err = svc.Signup(ctx, "a@x.com", "pw2", "ROLE_ADMIN")
	assert.True(t, apperrors.HasCode(err, "CONFLICT"))

	// pre-existing account untouched by the failed signup
	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.PasswordHash, stored.PasswordHash)
	assert.Equal(t, first.Role, stored.Role)
}

func TestLogin_CorrectCredentials(t *testing.T) {
	svc, _, dispatcher := newService(t)
	ctx := context.Background()

	created, _, _, err := svc.Signup(ctx, "a@x.com", "pw1", "ROLE_USER")
	require.NoError(t, err)

	account, token, _, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)

	subject, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, subject)

	assert.Equal(t, []events.EventType{events.EventAccountRegistered, events.EventAccountLoggedIn}, dispatcher.types())
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, _, _, err := svc.Signup(ctx, "a@x.com", "pw1", "ROLE_USER")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "a@x.com", "wrong")
	assert.True(t, apperrors.HasCode(err, "WRONG_CREDENTIALS"))
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newService(t)

	_, _, _, err := svc.Login(context.Background(), "nobody@x.com", "pw1")
	assert.True(t, apperrors.HasCode(err, "NOT_FOUND"))
}

func TestChangePassword_RotatesHashAndToken(t *testing.T) {
	svc, repo, dispatcher := newService(t)
	ctx := context.Background()

	created, _, _, err := svc.Signup(ctx, "a@x.com", "old-pw", "ROLE_USER")
	require.NoError(t, err)

	updated, token, _, err := svc.ChangePassword(ctx, created, "old-pw", "new-pw")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	subject, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, subject)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Error(t, auth.ComparePassword(stored.PasswordHash, "old-pw"))
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "new-pw"))

	assert.Contains(t, dispatcher.types(), events.EventPasswordChanged)
}

func TestChangePassword_WrongOldPasswordLeavesHash(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	created, _, _, err := svc.Signup(ctx, "a@x.com", "old-pw", "ROLE_USER")
	require.NoError(t, err)

	_, _, _, err = svc.ChangePassword(ctx, created, "not-old-pw", "new-pw")
	assert.True(t, apperrors.HasCode(err, "WRONG_CREDENTIALS"))

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "old-pw"))
}
