package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrDuplicatedValueUnique is returned when an insert or update collides with a unique column.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
)

const pgUniqueViolation = "23505"

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicatedValueUnique
	}
	return err
}
