// Package pokererr defines the error taxonomy shared by every engine package:
// malformed input, deck misuse, and invariant violations the engine cannot
// recover from internally.
package pokererr

import "fmt"

// Kind classifies an engine error so callers can branch on it with errors.Is.
type Kind int

const (
	// InvalidInput covers malformed card/hand strings, wrong card counts,
	// duplicate cards within a request, and out-of-range player/board counts.
	InvalidInput Kind = iota
	// UnavailableCard means an operation tried to remove or deal a card that
	// is not present in the deck.
	UnavailableCard
	// InvariantViolated means a range expanded to zero combos after dead-card
	// subtraction, or resampling in the equity engine repeatedly failed.
	InvariantViolated
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case UnavailableCard:
		return "unavailable card"
	case InvariantViolated:
		return "invariant violated"
	default:
		return "unknown error"
	}
}

// Error is the engine's concrete error type. It always carries a Kind so
// callers can distinguish malformed input from a broken internal invariant.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Kind, so
// errors.Is(err, pokererr.New(pokererr.InvalidInput, "")) works as a kind test.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind that wraps an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// OfKind is a sentinel usable with errors.Is to test for a particular Kind,
// e.g. errors.Is(err, pokererr.OfKind(pokererr.InvalidInput)).
func OfKind(kind Kind) error {
	return &Error{Kind: kind}
}
