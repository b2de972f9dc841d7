// Package reqctx tags each resolution with an identifier for log correlation.
package reqctx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type key int

const resolveKey key = 0

// Resolution describes one in-flight URL resolution
type Resolution struct {
	ID        string
	URL       string
	StartTime time.Time
}

// With attaches a new Resolution for rawURL to ctx
func With(ctx context.Context, rawURL string) context.Context {
	return context.WithValue(ctx, resolveKey, &Resolution{
		ID:        uuid.NewString(),
		URL:       rawURL,
		StartTime: time.Now(),
	})
}

// From returns the Resolution carried by ctx, or a placeholder
func From(ctx context.Context) *Resolution {
	if r, ok := ctx.Value(resolveKey).(*Resolution); ok {
		return r
	}
	return &Resolution{ID: "unknown", StartTime: time.Now()}
}

// Logger returns a logger that stamps every event with the resolution ID
func Logger(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	r := From(ctx)
	return base.With().Str("resolve_id", r.ID).Logger()
}

// Error wraps an error with the resolution it belongs to
type Error struct {
	ID  string
	URL string
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.ID, e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap ties err to the resolution carried by ctx. A nil err stays nil.
func Wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	r := From(ctx)
	return &Error{ID: r.ID, URL: r.URL, Err: err}
}
