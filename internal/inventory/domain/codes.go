package domain

import (
	"context"
	"fmt"
	"strings"
)

// FormatMovementCode renders a movement code such as I0001
func FormatMovementCode(kind MovementKind, seq int64) string {
	return fmt.Sprintf("%s%04d", kind.CodePrefix(), seq)
}

// NextMovementCode returns the first free code after the current count of the kind.
// Codes already taken, by callers or by rows deleted out of order, are skipped.
func NextMovementCode(ctx context.Context, repo JournalRepository, kind MovementKind) (string, error) {
	count, err := repo.CountMovements(ctx, kind)
	if err != nil {
		return "", err
	}

	for seq := count + 1; ; seq++ {
		code := FormatMovementCode(kind, seq)
		exists, err := repo.MovementCodeExists(ctx, kind, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

// ResolveMovementCode returns the trimmed caller code, or a generated one when blank.
// A caller code already in use is a conflict.
func ResolveMovementCode(ctx context.Context, repo JournalRepository, kind MovementKind, requested string) (string, error) {
	code := strings.TrimSpace(requested)
	if code == "" {
		return NextMovementCode(ctx, repo, kind)
	}

	exists, err := repo.MovementCodeExists(ctx, kind, code)
	if err != nil {
		return "", err
	}
	if exists {
		return "", Conflictf("%s code %q already exists", kind, code)
	}
	return code, nil
}
