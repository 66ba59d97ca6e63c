package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an inventory transaction failure.
type ErrorKind uint8

const (
	KindInvalidDenomination ErrorKind = iota + 1
	KindInvalidQuantity
	KindOverdraw
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidDenomination:
		return "INVALID_DENOMINATION"
	case KindInvalidQuantity:
		return "INVALID_QUANTITY"
	case KindOverdraw:
		return "OVERDRAW"
	default:
		return "UNKNOWN"
	}
}

// Error is returned by every inventory transaction that aborts.
// Value is only meaningful for KindInvalidDenomination.
type Error struct {
	Kind  ErrorKind
	Value int64
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidDenomination:
		return fmt.Sprintf("Invalid bill denomination: %d", e.Value)
	case KindInvalidQuantity:
		return "Quantities must be positive integers"
	case KindOverdraw:
		return "Insufficient funds in ATM"
	default:
		return "inventory error"
	}
}

// Is matches on kind only, so errors.Is(err, ErrInvalidDenomination) holds
// for any offending value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidDenomination = &Error{Kind: KindInvalidDenomination}
	ErrInvalidQuantity     = &Error{Kind: KindInvalidQuantity}
	ErrOverdraw            = &Error{Kind: KindOverdraw}
)

// InvalidDenomination builds the error for an unknown bill value.
func InvalidDenomination(value int64) *Error {
	return &Error{Kind: KindInvalidDenomination, Value: value}
}

// KindOf extracts the kind from err, or 0 when err is not an inventory error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
