package common

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		wantRetry bool
	}{
		{name: "nil", err: nil, wantRetry: false},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), wantRetry: true},
		{name: "bad conn", err: driver.ErrBadConn, wantRetry: true},
		{name: "connection exception", err: &pq.Error{Code: "08006"}, wantRetry: true},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01"}, wantRetry: true},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, wantRetry: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, wantRetry: false},
		{name: "network", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, wantRetry: true},
		{name: "not found", err: ErrRecordNotFound, wantRetry: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := StoreError(tc.err)
			assert.Equal(t, tc.wantRetry, errors.Is(got, ErrStoreUnavailable))
			if !tc.wantRetry {
				assert.Equal(t, tc.err, got)
			}
		})
	}
}

func TestStoreErrorDoesNotDoubleWrap(t *testing.T) {
	err := StoreError(driver.ErrBadConn)
	assert.Equal(t, err, StoreError(err))
}

func TestConstraintViolations(t *testing.T) {
	uniq := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "users_email_key"})
	fk := &pq.Error{Code: "23503", Constraint: "posts_blog_id_fkey"}

	assert.True(t, UniqueViolation(uniq, "users_email_key"))
	assert.False(t, UniqueViolation(uniq, "users_username_key"))
	assert.True(t, ForeignKeyViolation(fk, "posts_blog_id_fkey"))
	assert.False(t, ForeignKeyViolation(uniq, "users_email_key"))
	assert.False(t, ForeignKeyViolation(errors.New("boom"), "posts_blog_id_fkey"))
}
