package dbx

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a primary-key or unique
// constraint failure from either supported driver.
func IsUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// UnixNano and FromUnixNano convert timestamps to and from the BIGINT
// columns used by the schema. Times come back in UTC.
func UnixNano(t time.Time) int64 { return t.UnixNano() }

func FromUnixNano(n int64) time.Time { return time.Unix(0, n).UTC() }
