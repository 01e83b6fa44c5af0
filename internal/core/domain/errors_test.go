package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestStorageError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStorageWrite("user.insert", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("cause must stay reachable through errors.Is")
	}
	if !IsStorageWrite(err) || IsStorageRead(err) {
		t.Fatalf("kind misreported: %v", err)
	}

	wrapped := fmt.Errorf("register user: %w", err)
	if !IsStorageWrite(wrapped) {
		t.Fatalf("kind must survive further wrapping")
	}
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("user", "username", "role")
	want := "invalid user data: missing username, role"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
	if !IsValidation(fmt.Errorf("wrap: %w", err)) {
		t.Fatalf("IsValidation must see through wrapping")
	}
}
