package repositories

import (
	"database/sql"
	"errors"
)

// Sentinel errors shared by the postgres and memory implementations.
// Services translate these into their own error taxonomy.
var (
	// ErrNotFound aliases sql.ErrNoRows so both storage backends surface
	// missing rows identically.
	ErrNotFound = sql.ErrNoRows

	ErrDuplicateProfileName = errors.New("profile name already exists for account")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateHandle      = errors.New("handle already taken")
	ErrDuplicateCategory    = errors.New("category name already exists")
)

// IsNotFoundErr reports whether err represents a missing row
func IsNotFoundErr(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsDuplicateEmail reports whether err is the duplicate email sentinel
func IsDuplicateEmail(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}

// IsDuplicateHandle reports whether err is the duplicate handle sentinel
func IsDuplicateHandle(err error) bool {
	return errors.Is(err, ErrDuplicateHandle)
}
