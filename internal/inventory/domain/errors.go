package domain

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes ledger errors for callers that map them to transport codes
type ErrorKind int

const (
	// KindInternal is any error that did not originate from ledger validation
	KindInternal ErrorKind = iota
	// KindNotFound means a project, material or movement id could not be resolved
	KindNotFound
	// KindBadRequest means the request violated a ledger rule
	KindBadRequest
	// KindForbidden means the actor has no access to the project
	KindForbidden
	// KindConflict means a unique movement code is already taken
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Reasons refine a kind when callers need to react to a specific rule
const (
	ReasonNotAllocated    = "not_allocated"
	ReasonInvalidQuantity = "invalid_quantity"
)

// LedgerError is returned by every ledger operation that rejects a request
type LedgerError struct {
	Kind    ErrorKind
	Reason  string
	Message string
	Cause   error
}

func (e *LedgerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *LedgerError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by kind, and by reason when the sentinel carries one.
func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	if !ok || t.Message != "" {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// Sentinels for errors.Is
var (
	ErrNotFound        = &LedgerError{Kind: KindNotFound}
	ErrBadRequest      = &LedgerError{Kind: KindBadRequest}
	ErrForbidden       = &LedgerError{Kind: KindForbidden}
	ErrConflict        = &LedgerError{Kind: KindConflict}
	ErrNotAllocated    = &LedgerError{Kind: KindBadRequest, Reason: ReasonNotAllocated}
	ErrInvalidQuantity = &LedgerError{Kind: KindBadRequest, Reason: ReasonInvalidQuantity}
)

// NotFoundf creates a not found error
func NotFoundf(format string, args ...any) *LedgerError {
	return &LedgerError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// BadRequestf creates a bad request error
func BadRequestf(format string, args ...any) *LedgerError {
	return &LedgerError{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Forbiddenf creates a forbidden error
func Forbiddenf(format string, args ...any) *LedgerError {
	return &LedgerError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Conflictf creates a conflict error
func Conflictf(format string, args ...any) *LedgerError {
	return &LedgerError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// NotAllocatedf creates the error raised when a project has no allocation row for a material
func NotAllocatedf(format string, args ...any) *LedgerError {
	return &LedgerError{Kind: KindBadRequest, Reason: ReasonNotAllocated, Message: fmt.Sprintf(format, args...)}
}

// InvalidQuantityf creates the error raised for negative allocation quantities
func InvalidQuantityf(format string, args ...any) *LedgerError {
	return &LedgerError{Kind: KindBadRequest, Reason: ReasonInvalidQuantity, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ledger error kind from an error chain
func KindOf(err error) ErrorKind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindInternal
}
