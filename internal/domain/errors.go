package domain

import "errors"

// Failure kinds the API surfaces with a machine-checkable code. Wrap these
// with %w; the handler maps them onto the response envelope.
var (
	ErrInvalidConfiguration = errors.New("invalid schedule configuration")
	ErrInvalidPreference    = errors.New("invalid preference")
	ErrQuotaExceeded        = errors.New("build quota exceeded")
	ErrNoSubmissions        = errors.New("no priority submissions")
	ErrConcurrencyConflict  = errors.New("concurrent generation conflict")
	ErrNoArrangement        = errors.New("no arrangement generated yet")
)

// ErrorCode returns the wire code for a known failure kind, or "" when the
// error is not one of the published kinds.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, ErrInvalidPreference):
		return "invalid_preference"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrNoSubmissions):
		return "no_submissions"
	case errors.Is(err, ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, ErrNoArrangement):
		return "no_arrangement"
	default:
		return ""
	}
}
