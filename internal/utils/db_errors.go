package utils

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var pqErrorTypes = map[pq.ErrorCode]string{
	"23505": "unique_violation",
	"23503": "foreign_key_violation",
	"23502": "not_null_violation",
	"23514": "check_violation",
	"40001": "serialization_failure",
	"40P01": "deadlock",
	"57014": "query_canceled",
	"57P01": "admin_shutdown",
	"08000": "connection_error",
	"08003": "connection_error",
	"08006": "connection_error",
}

// GetDBErrorType categorizes database errors into metric labels.
func GetDBErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, sql.ErrNoRows):
		return "no_rows"
	case errors.Is(err, sql.ErrConnDone):
		return "connection_closed"
	case errors.Is(err, sql.ErrTxDone):
		return "transaction_done"
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if errType, ok := pqErrorTypes[pqErr.Code]; ok {
			return errType
		}
		return "postgres_error"
	}

	switch {
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	default:
		return "unknown"
	}
}
