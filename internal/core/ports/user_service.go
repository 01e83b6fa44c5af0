package ports

import (
	"context"

	"github.com/boloflier/bolo-system/internal/core/domain"
)

// UserService is the account-management API consumed by delivery layers.
type UserService interface {
	// RegisterUser validates the DTO, enforces username uniqueness
	// (best effort, read before write) and persists the new account.
	RegisterUser(ctx context.Context, dto domain.UserDTO) (*domain.User, error)
	// Authenticate resolves to (nil, nil) when the username is unknown or
	// the password does not match; the two cases are indistinguishable by
	// design. An error is returned only for store failures.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUsers(ctx context.Context) ([]*domain.User, error)
	ResetPassword(ctx context.Context, id, password string) (*domain.User, error)
	RemoveUser(ctx context.Context, id string) (*RemoveReceipt, error)
}
