package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/boloflier/bolo-system/internal/core/domain"
	"github.com/boloflier/bolo-system/internal/core/ports"
)

// stubUserRepo is an in-memory UserRepository that records which operations
// were reached.
type stubUserRepo struct {
	byID     map[string]*domain.User
	nextID   int
	calls    []string
	readErr  error // returned by GetByID/GetByUsername/List when set
	writeErr error // returned by Insert/Update/Remove when set
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	r.calls = append(r.calls, "insert")
	if r.writeErr != nil {
		return nil, r.writeErr
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.nextID)
	r.byID[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.calls = append(r.calls, "get_by_id")
	if r.readErr != nil {
		return nil, r.readErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.calls = append(r.calls, "get_by_username")
	if r.readErr != nil {
		return nil, r.readErr
	}
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.calls = append(r.calls, "update")
	if r.writeErr != nil {
		return nil, r.writeErr
	}
	if _, ok := r.byID[user.ID]; !ok {
		return nil, fmt.Errorf("user %q: %w", user.ID, domain.ErrNotFound)
	}
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Remove(_ context.Context, id string) (*ports.RemoveReceipt, error) {
	r.calls = append(r.calls, "remove")
	if r.writeErr != nil {
		return nil, r.writeErr
	}
	if _, ok := r.byID[id]; !ok {
		return nil, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}
	delete(r.byID, id)
	return &ports.RemoveReceipt{ID: id, OK: true}, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.calls = append(r.calls, "list")
	if r.readErr != nil {
		return nil, r.readErr
	}
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func newUserService(repo *stubUserRepo) *UserService {
	return NewUserService(repo, zerolog.Nop())
}

func TestUserService_RegisterUser_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)

	user, err := svc.RegisterUser(context.Background(), domain.UserDTO{
		Username: "jdoe", Password: "x", Role: "ADMIN",
	})
	if err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if user.Username != "jdoe" {
		t.Fatalf("unexpected username %q", user.Username)
	}
}

func TestUserService_RegisterUser_Invalid_SkipsRepository(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)

	_, err := svc.RegisterUser(context.Background(), domain.UserDTO{Username: "jdoe"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("invalid dto must fail before any repository call, got %v", repo.calls)
	}
}

func TestUserService_RegisterUser_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)
	dto := domain.UserDTO{Username: "jdoe", Password: "x", Role: "ADMIN"}

	if _, err := svc.RegisterUser(context.Background(), dto); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := svc.RegisterUser(context.Background(), dto)
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)
	_, _ = svc.RegisterUser(context.Background(), domain.UserDTO{
		Username: "jdoe", Password: "x", Role: "OFFICER",
	})

	user, err := svc.Authenticate(context.Background(), "jdoe", "x")
	if err != nil || user == nil || user.Username != "jdoe" {
		t.Fatalf("expected match, got user=%v err=%v", user, err)
	}

	// Wrong password and unknown username are both a quiet nil.
	user, err = svc.Authenticate(context.Background(), "jdoe", "wrong")
	if err != nil || user != nil {
		t.Fatalf("wrong password must resolve to nil, nil: %v %v", user, err)
	}
	user, err = svc.Authenticate(context.Background(), "nouser", "x")
	if err != nil || user != nil {
		t.Fatalf("unknown user must resolve to nil, nil: %v %v", user, err)
	}
}

func TestUserService_Authenticate_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.readErr = domain.NewStorageRead("user.get_by_username", errors.New("boom"))
	svc := newUserService(repo)

	_, err := svc.Authenticate(context.Background(), "jdoe", "x")
	if !domain.IsStorageRead(err) {
		t.Fatalf("store failure must surface as error, got %v", err)
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)
	created, _ := svc.RegisterUser(context.Background(), domain.UserDTO{
		Username: "jdoe", Password: "old", Role: "ADMIN",
	})

	updated, err := svc.ResetPassword(context.Background(), created.ID, "new")
	if err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}
	if updated.Password != "new" {
		t.Fatalf("password not updated")
	}
}

func TestUserService_ResetPassword_ReadVsWriteFailure(t *testing.T) {
	// Vanished user: the read fails and the message says so.
	repo := newStubUserRepo()
	svc := newUserService(repo)
	_, err := svc.ResetPassword(context.Background(), "ghost", "new")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "load user") {
		t.Fatalf("read failure must be labelled load, got %q", got)
	}

	// Rejected write: the read succeeds, the save fails.
	repo = newStubUserRepo()
	svc = newUserService(repo)
	created, _ := svc.RegisterUser(context.Background(), domain.UserDTO{
		Username: "jdoe", Password: "x", Role: "ADMIN",
	})
	repo.writeErr = domain.NewStorageWrite("user.update", errors.New("boom"))
	_, err = svc.ResetPassword(context.Background(), created.ID, "new")
	if !domain.IsStorageWrite(err) {
		t.Fatalf("expected write failure, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "save user") {
		t.Fatalf("write failure must be labelled save, got %q", got)
	}
}

func TestUserService_RemoveUser_EmptyID(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)

	_, err := svc.RemoveUser(context.Background(), "")
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("empty id must never reach the repository, got %v", repo.calls)
	}
}

func TestUserService_RemoveUser_Unknown(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)

	_, err := svc.RemoveUser(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("removing an unknown id must fail, got %v", err)
	}
}

func TestUserService_FormatDTO(t *testing.T) {
	svc := newUserService(newStubUserRepo())

	dto := svc.FormatDTO(map[string]any{
		"username": "jdoe",
		"password": "x",
		"bogus":    "dropped",
	})
	if dto.Username != "jdoe" || dto.Password != "x" || dto.Role != "" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
}

func TestUserService_RoleNames(t *testing.T) {
	svc := newUserService(newStubUserRepo())

	names := svc.RoleNames()
	if len(names) != 3 || names[0] != "Admin" {
		t.Fatalf("unexpected role names: %v", names)
	}
	if role, ok := svc.Role("admin"); !ok || role != domain.RoleAdmin {
		t.Fatalf("role lookup failed: %q %v", role, ok)
	}
}
