package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/repository"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

const accountKey = "auth_account"

// AuthMiddleware validates bearer tokens and loads the authenticated
// account for downstream handlers.
type AuthMiddleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, accounts repository.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, accounts: accounts}
}

// Handle enforces authentication for protected routes. All rejection
// paths produce the same unauthorized outcome so a caller cannot tell
// a missing header from a bad signature or an expired token.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("invalid or missing token")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid or missing token")
	}

	accountID, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid or missing token")
	}

	account, err := m.accounts.GetByID(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("invalid or missing token")
		}
		return apperrors.NewStoreUnavailable(err)
	}

	c.Locals(accountKey, account)
	return c.Next()
}

// CurrentAccount retrieves the authenticated account set by Handle.
func CurrentAccount(c *fiber.Ctx) (*domain.Account, bool) {
	val := c.Locals(accountKey)
	if val == nil {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	return account, ok
}
