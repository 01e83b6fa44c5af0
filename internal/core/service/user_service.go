package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/boloflier/bolo-system/internal/core/domain"
	"github.com/boloflier/bolo-system/internal/core/ports"
)

// UserService implements account management on top of a UserRepository port.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// RegisterUser creates a new account. The uniqueness check is read before
// write, not transactional: two concurrent registrations for the same
// username can both pass it. The store carries no unique constraint, so the
// window stays open here rather than being papered over.
func (s *UserService) RegisterUser(ctx context.Context, dto domain.UserDTO) (*domain.User, error) {
	user := domain.NewUser(dto)
	if missing := user.MissingFields(); len(missing) > 0 {
		return nil, domain.NewValidationError("user", missing...)
	}

	existing, err := s.repo.GetByUsername(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%q: %w", user.Username, domain.ErrDuplicateUser)
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		s.log.Error().Err(err).Str("username", user.Username).Msg("user insert failed")
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Authenticate checks a username/password pair by plain equality against the
// stored credential. An unknown username and a wrong password both resolve to
// (nil, nil); only store failures surface as errors.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if user == nil || user.Password != password {
		return nil, nil
	}
	return user, nil
}

// GetUser loads a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetUsers lists every registered user.
func (s *UserService) GetUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// ResetPassword is a read-modify-write. The two failure modes stay
// distinguishable: a failed read means the user vanished, a failed write
// means the store rejected the save.
func (s *UserService) ResetPassword(ctx context.Context, id, password string) (*domain.User, error) {
	if password == "" {
		return nil, domain.NewValidationError("user", "password")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reset password: load user: %w", err)
	}

	user.Password = password
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("reset password: save user: %w", err)
	}

	s.log.Info().Str("user_id", id).Msg("password reset")
	return updated, nil
}

// RemoveUser deletes an account by id. An empty id is a caller bug and is
// rejected before the repository is touched.
func (s *UserService) RemoveUser(ctx context.Context, id string) (*ports.RemoveReceipt, error) {
	if id == "" {
		return nil, domain.NewValidationError("user", "id")
	}
	return s.repo.Remove(ctx, id)
}

// FormatDTO projects an arbitrary input mapping down to exactly the
// recognised user keys. Unknown or mistyped keys are dropped.
func (s *UserService) FormatDTO(raw map[string]any) domain.UserDTO {
	return domain.UserDTOFromMap(raw)
}

// RoleNames returns the defined role names formatted for display.
func (s *UserService) RoleNames() []string {
	names := domain.RoleNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = domain.RoleDisplayName(n)
	}
	return out
}

// Role resolves a display or canonical role name to its canonical constant.
func (s *UserService) Role(name string) (string, bool) {
	return domain.RoleFromName(name)
}
