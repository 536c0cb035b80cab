package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a Postgres unique violation.
// When constraintName is provided, the violated constraint must match it.
func IsUniqueViolation(err error, constraintName string) bool {
	code, constraint := pgErrorInfo(err)
	if code != pgUniqueViolation {
		return false
	}
	return constraintName == "" || constraint == constraintName
}

// IsForeignKeyViolation reports whether err is a Postgres FK violation.
func IsForeignKeyViolation(err error) bool {
	code, _ := pgErrorInfo(err)
	return code == pgForeignKeyViolation
}

func pgErrorInfo(err error) (code, constraint string) {
	if err == nil {
		return "", ""
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}
