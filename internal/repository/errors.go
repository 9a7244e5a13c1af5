// trustcall-directory-service/internal/repository/errors.go
package repository

import "errors"

var (
	// ErrNotFound: the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict: the record already exists (unique constraint violation).
	ErrConflict = errors.New("record already exists")

	// ErrDatabase: unexpected storage failure.
	ErrDatabase = errors.New("database internal error")
)
