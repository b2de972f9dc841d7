package reqctx

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestWithAndWrap(t *testing.T) {
	ctx := With(context.Background(), "https://lichess.org/CA4bR2b8")
	r := From(ctx)
	if _, err := uuid.Parse(r.ID); err != nil {
		t.Fatalf("Expected a UUID, got %q", r.ID)
	}

	base := errors.New("boom")
	err := Wrap(ctx, base)
	if !errors.Is(err, base) {
		t.Error("Expected wrapped error to unwrap to the cause")
	}
	if !strings.Contains(err.Error(), r.ID) || !strings.Contains(err.Error(), "CA4bR2b8") {
		t.Errorf("Unexpected message: %s", err)
	}
	if Wrap(ctx, nil) != nil {
		t.Error("Expected nil error to stay nil")
	}
	if From(context.Background()).ID != "unknown" {
		t.Error("Expected placeholder for bare context")
	}
}
