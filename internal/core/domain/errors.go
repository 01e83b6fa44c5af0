package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals that a referenced document id does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateUser signals a username collision at registration time.
	ErrDuplicateUser = errors.New("user already registered")
	// ErrConflict signals a write rejected because the stored revision moved
	// underneath it.
	ErrConflict = errors.New("stale document revision")
)

// ValidationError reports entity fields that failed the pre-write gate, or a
// missing identifier handed to a destructive operation.
type ValidationError struct {
	Entity string
	Fields []string
}

func NewValidationError(entity string, fields ...string) *ValidationError {
	return &ValidationError{Entity: entity, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid %s data", e.Entity)
	}
	return fmt.Sprintf("invalid %s data: missing %s", e.Entity, strings.Join(e.Fields, ", "))
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError wraps a transport or service failure from the backing store,
// keeping the underlying cause reachable through errors.Is/As.
type StorageError struct {
	Op    string // failed operation, e.g. "user.insert"
	Write bool   // true for writes, false for reads
	Err   error
}

func (e *StorageError) Error() string {
	kind := "read"
	if e.Write {
		kind = "write"
	}
	return fmt.Sprintf("%s: storage %s failed: %v", e.Op, kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageRead wraps a failed store read.
func NewStorageRead(op string, err error) *StorageError {
	return &StorageError{Op: op, Write: false, Err: err}
}

// NewStorageWrite wraps a failed store write.
func NewStorageWrite(op string, err error) *StorageError {
	return &StorageError{Op: op, Write: true, Err: err}
}

// IsStorageRead reports whether err is (or wraps) a read-side StorageError.
func IsStorageRead(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && !se.Write
}

// IsStorageWrite reports whether err is (or wraps) a write-side StorageError.
func IsStorageWrite(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Write
}
