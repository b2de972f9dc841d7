package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/law-makers/pgnfetch/internal/pgn"
	"github.com/law-makers/pgnfetch/internal/provider"
	"github.com/law-makers/pgnfetch/internal/transport"
	urlutil "github.com/law-makers/pgnfetch/internal/utils/url"
)

// Common resolver errors
var (
	ErrInvalidURL    = urlutil.ErrInvalidURL
	ErrNoProvider    = errors.New("no provider recognizes the URL")
	ErrNotPGN        = pgn.ErrNotPGN
	ErrProviderPanic = errors.New("provider panicked")
)

// ErrorCode represents a specific failure condition
type ErrorCode string

const (
	ErrCodeInvalidURL ErrorCode = "INVALID_URL"
	ErrCodeNoProvider ErrorCode = "NO_PROVIDER"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeTimeout    ErrorCode = "TIMEOUT"
	ErrCodeNetwork    ErrorCode = "NETWORK_ERROR"
	ErrCodeParse      ErrorCode = "PARSE_ERROR"
	ErrCodeNotPGN     ErrorCode = "NOT_PGN"
	ErrCodePanic      ErrorCode = "PANIC"
)

// ResolveError wraps a failed resolution with its cause and the provider
// that was in charge, if any
type ResolveError struct {
	Code       ErrorCode
	Provider   string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *ResolveError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Provider != "" {
		msg = fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Provider)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *ResolveError) Unwrap() error {
	return e.Underlying
}

// Is matches another ResolveError by code, anything else through the
// underlying error
func (e *ResolveError) Is(target error) bool {
	if t, ok := target.(*ResolveError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// NewResolveError creates a new ResolveError
func NewResolveError(code ErrorCode, message string, err error) *ResolveError {
	return &ResolveError{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

// WithProvider records the provider in charge
func (e *ResolveError) WithProvider(name string) *ResolveError {
	e.Provider = name
	return e
}

// classify maps a provider or transport failure to an error code
func classify(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrProviderPanic):
		return ErrCodePanic
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case errors.Is(err, provider.ErrNotFound), errors.Is(err, transport.ErrNoData):
		return ErrCodeNotFound
	case errors.Is(err, transport.ErrStatus):
		var se *transport.StatusError
		if errors.As(err, &se) && (se.Code == http.StatusNotFound || se.Code == http.StatusGone) {
			return ErrCodeNotFound
		}
		return ErrCodeNetwork
	case errors.Is(err, transport.ErrNetwork), errors.Is(err, transport.ErrSocketProtocol):
		return ErrCodeNetwork
	default:
		return ErrCodeParse
	}
}
