package common

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	// ErrStoreUnavailable is retryable; callers decide whether and when to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// StoreError wraps err with ErrStoreUnavailable when it describes a transient
// backend condition. Any other error is returned unchanged.
func StoreError(err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}

	if isTransient(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return err
}

func isTransient(err error) bool {
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone):
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch {
		case strings.HasPrefix(code, "08"), // connection exception
			strings.HasPrefix(code, "53"), // insufficient resources
			strings.HasPrefix(code, "57P"),
			code == "40001", // serialization_failure
			code == "40P01", // deadlock_detected
			code == "55P03": // lock_not_available
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// UniqueViolation reports whether err is a unique constraint violation on the named constraint.
func UniqueViolation(err error, name string) bool {
	return pqConstraintError(err, "23505", name)
}

// ForeignKeyViolation reports whether err is a foreign key violation on the named constraint.
func ForeignKeyViolation(err error, name string) bool {
	return pqConstraintError(err, "23503", name)
}

func pqConstraintError(err error, code, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) == code && pqErr.Constraint == name {
			return true
		}
	}

	return false
}
