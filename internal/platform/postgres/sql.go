package postgres

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"concours/pkg/sentinel"
)

const uniqueViolationCode = "23505"

// Builder returns a squirrel statement builder with Postgres placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// TranslateError maps driver-level errors onto the sentinel vocabulary the
// services understand. Errors that carry no extra meaning pass through.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if pgxscan.NotFound(err) {
		return sentinel.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return sentinel.ErrConflict
	}
	return err
}
