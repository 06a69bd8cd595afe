package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/internalpj/crm-api/internal/api/metrics"
	"github.com/internalpj/crm-api/internal/core/domain"
	"github.com/internalpj/crm-api/internal/core/ports"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, apiResponse{Success: true})
}

// Login verifies credentials and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  apiResponse{data=loginResponse}
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.accounts.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Password: req.Password,
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: loginResponse{
		UserID:      res.UserID,
		Username:    res.Username,
		Email:       res.Email,
		AccessToken: res.AccessToken,
	}})
}

func registerResult(err error) string {
	switch err {
	case domain.ErrUsernameTaken:
		return "username_conflict"
	case domain.ErrEmailTaken:
		return "email_conflict"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	switch err {
	case domain.ErrInvalidCredentials:
		return "invalid_credentials"
	case domain.ErrTooManyAttempts:
		return "throttled"
	default:
		return "error"
	}
}
