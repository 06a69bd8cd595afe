package ports

import (
	"context"

	"github.com/internalpj/crm-api/internal/core/domain"
)

// RegisterInput carries a pre-validated registration request. Field bounds
// (username length, email syntax, password length, role range) are enforced at
// the transport layer before this input is built.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	RoleID   int
	RemoteIP string
}

// LoginInput carries the transient credential pair presented at login. It is
// used once for verification and never persisted.
type LoginInput struct {
	Username string
	Password string
	RemoteIP string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	UserID      int64
	Username    string
	Email       string
	AccessToken string
}

// AccountService defines the account use cases: registration, login, and user
// lookups for the authenticated surfaces.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
