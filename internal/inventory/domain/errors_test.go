package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestLedgerErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"not found kind", NotFoundf("material %d not found", 1), ErrNotFound, true},
		{"kind mismatch", NotFoundf("material %d not found", 1), ErrBadRequest, false},
		{"not allocated is a bad request", NotAllocatedf("no allocation"), ErrBadRequest, true},
		{"not allocated reason", NotAllocatedf("no allocation"), ErrNotAllocated, true},
		{"plain bad request is not a reason", BadRequestf("stock is zero"), ErrNotAllocated, false},
		{"invalid quantity", InvalidQuantityf("negative"), ErrInvalidQuantity, true},
		{"wrapped conflict", fmt.Errorf("register: %w", Conflictf("code taken")), ErrConflict, true},
		{"forbidden", Forbiddenf("no access"), ErrForbidden, true},
		{"plain error", errors.New("boom"), ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("wrap: %w", Forbiddenf("x"))); got != KindForbidden {
		t.Errorf("KindOf() = %v, want forbidden", got)
	}
	if got := KindOf(errors.New("db down")); got != KindInternal {
		t.Errorf("KindOf() = %v, want internal", got)
	}
	if KindConflict.String() != "conflict" || KindInternal.String() != "internal" {
		t.Error("unexpected kind names")
	}
}

func TestLedgerErrorMessage(t *testing.T) {
	cause := errors.New("connection reset")
	err := &LedgerError{Kind: KindBadRequest, Message: "cannot save", Cause: cause}
	if err.Error() != "cannot save: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("cause is not reachable through Unwrap")
	}
}
