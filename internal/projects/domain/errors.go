package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("project not found")
	ErrDuplicateKey = errors.New("project already exists")
)

// ValidationError reports the first rule a raw project record violated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps a failure of the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
