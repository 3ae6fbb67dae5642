package core

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a tenant does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSlugTaken is returned when signing up with a slug already in use.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrInvalidSlug is returned for slugs that are not URL-safe.
	ErrInvalidSlug = errors.New("slug must be lowercase letters, digits and single dashes")
	// ErrUnauthorized is returned for missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
