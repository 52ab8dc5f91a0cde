package db

import (
	"errors"

	"github.com/lib/pq"
)

const uniqueViolationCode = pq.ErrorCode("23505")

// IsUniqueViolation reports whether err is a Postgres unique constraint violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}

const (
	serializationFailureCode = pq.ErrorCode("40001")
	deadlockDetectedCode     = pq.ErrorCode("40P01")
)

// IsRetryableTxError reports whether a transaction failed only because it lost a race with a
// concurrent one and may succeed when run again
func IsRetryableTxError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == serializationFailureCode || pqErr.Code == deadlockDetectedCode
	}
	return false
}
