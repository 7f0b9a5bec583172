package chem

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrInvalidParameter indicates malformed test matrix arguments.
	ErrInvalidParameter = errors.New("chem: invalid parameter")

	// ErrInvalidSpecies indicates a species the provider does not recognize.
	ErrInvalidSpecies = errors.New("chem: invalid species")

	// ErrInvalidComposition indicates a structurally impossible mixture.
	ErrInvalidComposition = errors.New("chem: invalid composition")
)

// Error carries one of the error kinds with a user-facing message. Error()
// returns the message alone so callers can compare it verbatim.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the error kind wrapped by err, or nil.
func KindOf(err error) error {
	for _, kind := range []error{ErrInvalidParameter, ErrInvalidSpecies, ErrInvalidComposition} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
