package ports

import (
	"context"

	"github.com/internalpj/crm-api/internal/core/domain"
)

// UserRepository defines persistence operations for user records. Every query
// excludes soft-deleted rows; a deleted user's username and email may be
// reused by a later registration.
type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Save persists a new user and returns it with its assigned id.
	// Implementations back uniqueness with store-level constraints and return
	// domain.ErrUsernameTaken / domain.ErrEmailTaken on conflict, which closes
	// the gap between the service's existence checks and the insert.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
}
