package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// AccountsHandler exposes signup, login and current-user endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accountService}
}

// Signup handles POST /users/signup.
func (h *AccountsHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return apperrors.NewValidationError("email, password, role required", nil)
	}

	account, token, _, err := h.accounts.Signup(c.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.TokenResponse{
		UserID:      account.ID,
		AccessToken: token,
	})
}

// Login handles POST /users/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	account, token, _, err := h.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		UserID:      account.ID,
		AccessToken: token,
	})
}

// Me handles GET /users/me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	account, ok := auth.CurrentAccount(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or missing token")
	}

	return c.JSON(dto.AccountResponse{
		ID:    account.ID,
		Email: account.Email,
		Role:  string(account.Role),
	})
}

// ChangePassword handles PATCH /users/me.
func (h *AccountsHandler) ChangePassword(c *fiber.Ctx) error {
	account, ok := auth.CurrentAccount(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or missing token")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("old_password and new_password required", nil)
	}

	updated, token, _, err := h.accounts.ChangePassword(c.Context(), account, req.OldPassword, req.NewPassword)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		UserID:      updated.ID,
		AccessToken: token,
	})
}
