package core

import (
	"errors"
	"regexp"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with an existing row (unique constraint)
var ErrConflict = errors.New("conflict")

// ErrProtocol marks an inbound event whose shape the bot does not understand, e.g. an
// unknown custom ID segment or a missing command option. These are never answered softly.
var ErrProtocol = errors.New("protocol error")

// ErrInvalidTimestamp is returned when a platform timestamp cannot be represented
var ErrInvalidTimestamp = errors.New("invalid timestamp")

var notFoundRegex = regexp.MustCompile(`(?i)not found`)

// IsNotFoundError checks if an error is a "not found" error
// This function handles both the ErrNotFound sentinel error and legacy string-based errors
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return notFoundRegex.MatchString(err.Error())
}

// IsConflictError reports whether err wraps ErrConflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsProtocolError reports whether err wraps ErrProtocol
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrProtocol)
}
