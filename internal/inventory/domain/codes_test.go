package domain

import (
	"context"
	"errors"
	"testing"
)

type codeJournal struct {
	JournalRepository
	counts map[MovementKind]int64
	taken  map[string]bool
}

func (j *codeJournal) CountMovements(_ context.Context, kind MovementKind) (int64, error) {
	return j.counts[kind], nil
}

func (j *codeJournal) MovementCodeExists(_ context.Context, _ MovementKind, code string) (bool, error) {
	return j.taken[code], nil
}

func TestFormatMovementCode(t *testing.T) {
	tests := []struct {
		kind MovementKind
		seq  int64
		want string
	}{
		{MovementInward, 1, "I0001"},
		{MovementOutward, 42, "O0042"},
		{MovementTransfer, 12345, "T12345"},
	}
	for _, tt := range tests {
		if got := FormatMovementCode(tt.kind, tt.seq); got != tt.want {
			t.Errorf("FormatMovementCode(%s, %d) = %q, want %q", tt.kind, tt.seq, got, tt.want)
		}
	}
}

func TestNextMovementCode(t *testing.T) {
	ctx := context.Background()
	journal := &codeJournal{
		counts: map[MovementKind]int64{MovementInward: 2},
		taken:  map[string]bool{"I0003": true, "I0004": true},
	}

	got, err := NextMovementCode(ctx, journal, MovementInward)
	if err != nil {
		t.Fatalf("NextMovementCode() error = %v", err)
	}
	if got != "I0005" {
		t.Errorf("NextMovementCode() = %q, want I0005", got)
	}

	got, err = NextMovementCode(ctx, journal, MovementOutward)
	if err != nil {
		t.Fatalf("NextMovementCode() error = %v", err)
	}
	if got != "O0001" {
		t.Errorf("NextMovementCode() = %q, want O0001", got)
	}
}

func TestResolveMovementCode(t *testing.T) {
	ctx := context.Background()
	journal := &codeJournal{
		counts: map[MovementKind]int64{},
		taken:  map[string]bool{"GRN-7": true},
	}

	tests := []struct {
		name      string
		requested string
		want      string
		wantErr   error
	}{
		{"blank generates", "   ", "T0001", nil},
		{"caller code is trimmed", "  GRN-8 ", "GRN-8", nil},
		{"taken code conflicts", "GRN-7", "", ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMovementCode(ctx, journal, MovementTransfer, tt.requested)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveMovementCode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveMovementCode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveMovementCode() = %q, want %q", got, tt.want)
			}
		})
	}
}
