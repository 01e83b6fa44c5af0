package ports

import (
	"context"

	"github.com/boloflier/bolo-system/internal/core/domain"
)

// RemoveReceipt acknowledges a successful delete.
type RemoveReceipt struct {
	ID string `json:"id"`
	OK bool   `json:"ok"`
}

// UserRepository defines persistence operations for users, independent of
// the storage technology.
//
// Semantics every implementation must honour:
//   - Insert returns a copy of the input identical except for the freshly
//     assigned id.
//   - GetByUsername returns (nil, nil) when no user matches; absence is not
//     an error.
//   - Update requires the entity to already carry an id and fails with
//     domain.ErrConflict when the stored revision moved underneath it.
//   - Remove rejects an empty id with a domain.ValidationError before any
//     store call is made.
//   - List returns an empty slice, not an error, when no users exist.
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Remove(ctx context.Context, id string) (*RemoveReceipt, error)
	List(ctx context.Context) ([]*domain.User, error)
}
