package core

import "fmt"

// Kind enumerates the error conditions named by the algorithm's external
// interfaces: a malformed mining input, a scratchpad allocation that could
// not be satisfied, and a polite cancellation observed at a batch boundary.
type Kind int

const (
	InvalidInputLength Kind = iota
	AllocationFailure
	CancellationRequested
)

func (k Kind) String() string {
	switch k {
	case InvalidInputLength:
		return "invalid_input_length"
	case AllocationFailure:
		return "allocation_failure"
	case CancellationRequested:
		return "cancellation_requested"
	default:
		return "unknown"
	}
}

// HashError is the structured error type returned across the hashing and
// mining surfaces.
type HashError struct {
	Kind    Kind
	Message string
	Details string
}

func (e *HashError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("uhash: [%s] %s: %s", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("uhash: [%s] %s", e.Kind, e.Message)
}

// NewError builds a HashError of the given kind.
func NewError(kind Kind, message string, details ...string) error {
	err := &HashError{Kind: kind, Message: message}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// IsKind reports whether err is a *HashError of the given kind.
func IsKind(err error, kind Kind) bool {
	he, ok := err.(*HashError)
	return ok && he.Kind == kind
}
