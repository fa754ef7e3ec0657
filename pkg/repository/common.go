package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
)

// errCritical is matched by every criticalError, passed to repeater as the stop error
var errCritical = errors.New("critical")

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error {
	return e.err
}

// Is makes errors.Is(err, errCritical) true for any critical error
func (e *criticalError) Is(target error) bool {
	return target == errCritical
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// isUniqueError checks if an error is a unique constraint violation
func isUniqueError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isConnError checks if an error means the store is unreachable, not just one bad record
func isConnError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "sql: database is closed")
}
