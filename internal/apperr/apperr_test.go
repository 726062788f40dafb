package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIs(t *testing.T) {
	err := New(CodeItemUnavailable, "item 3 is reserved")

	if !Is(err, CodeItemUnavailable) {
		t.Error("expected Is to match own code")
	}
	if Is(err, CodeInvalidProposal) {
		t.Error("expected Is not to match a different code")
	}

	wrapped := fmt.Errorf("proposing swap: %w", err)
	if !Is(wrapped, CodeItemUnavailable) {
		t.Error("expected Is to see through wrapping")
	}
}

func TestIsDomain(t *testing.T) {
	if !IsDomain(Newf(CodeEmptyMessage, "swap %d", 1)) {
		t.Error("expected domain error")
	}
	if IsDomain(errors.New("database is locked")) {
		t.Error("plain errors are not domain errors")
	}
	if IsDomain(nil) {
		t.Error("nil is not a domain error")
	}
}

func TestErrorString(t *testing.T) {
	err := New(CodeUnauthorized, "not a participant")
	if got, want := err.Error(), "[UNAUTHORIZED] not a participant"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
