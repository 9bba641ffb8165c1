package rewrite

import (
	"errors"
	"fmt"
)

// RewriteError represents an error detected while running passes.
//
// Rewrite errors include:
//   - Unsupported node: a pass met a node kind it cannot traverse
//   - Invalid rewrite: a pass produced an invalid replacement
//   - Unknown pass: a pass was requested by name and not registered
type RewriteError struct {
	// Code identifies the error category.
	Code RewriteErrorCode

	// Message is a human-readable description.
	Message string

	// Pass names the pass that failed, when known.
	Pass string
}

// RewriteErrorCode categorizes rewrite errors.
type RewriteErrorCode string

const (
	// ErrCodeUnsupportedNode indicates a node kind a pass cannot handle.
	ErrCodeUnsupportedNode RewriteErrorCode = "UNSUPPORTED_NODE"

	// ErrCodeInvalidRewrite indicates a pass produced an invalid replacement.
	ErrCodeInvalidRewrite RewriteErrorCode = "INVALID_REWRITE"

	// ErrCodeUnknownPass indicates a pass name with no registration.
	ErrCodeUnknownPass RewriteErrorCode = "UNKNOWN_PASS"
)

// Error implements the error interface.
func (e *RewriteError) Error() string {
	if e.Pass != "" {
		return fmt.Sprintf("%s: %s (pass=%s)", e.Code, e.Message, e.Pass)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownPass returns true if the error is an unknown-pass error.
// Uses errors.As to handle wrapped errors.
func IsUnknownPass(err error) bool {
	var re *RewriteError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnknownPass
	}
	return false
}
