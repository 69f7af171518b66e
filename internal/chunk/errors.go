package chunk

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRedefinition is matched by RedefinitionError.
	ErrRedefinition = errors.New("chunk redefined")
	// ErrUnknownOperator is matched by UnknownOperatorError.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrUndefinedChunk is matched by UndefinedChunkError.
	ErrUndefinedChunk = errors.New("undefined chunk")
	// ErrCircularReference is matched by CircularReferenceError.
	ErrCircularReference = errors.New("circular reference")
)

// Error kinds reported by Kind.
const (
	KindRedefinition      = "redefinition"
	KindUnknownOperator   = "unknown_operator"
	KindUndefinedChunk    = "undefined_chunk"
	KindCircularReference = "circular_reference"
)

// RedefinitionError is returned when '=' is used on a chunk that already has parts.
type RedefinitionError struct {
	Name string
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("chunk %q redefined using '=' after it has been defined", e.Name)
}

func (e *RedefinitionError) Is(target error) bool { return target == ErrRedefinition }

// UnknownOperatorError is returned for an operator token other than '=' or '+='.
type UnknownOperatorError struct {
	Name     string
	Operator string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator '%s' in chunk %q", e.Operator, e.Name)
}

func (e *UnknownOperatorError) Is(target error) bool { return target == ErrUnknownOperator }

// UndefinedChunkError is returned when a reference or the entry chunk names a missing chunk.
type UndefinedChunkError struct {
	Name string
}

func (e *UndefinedChunkError) Error() string {
	return fmt.Sprintf("undefined chunk: %s", e.Name)
}

func (e *UndefinedChunkError) Is(target error) bool { return target == ErrUndefinedChunk }

// CircularReferenceError is returned when a chunk transitively references itself.
// Chain runs from the entry chunk through the repeated name.
type CircularReferenceError struct {
	Chain []string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular reference detected: %s", strings.Join(e.Chain, " -> "))
}

func (e *CircularReferenceError) Is(target error) bool { return target == ErrCircularReference }

// Kind returns a short stable name for a chunk error, or "" if err is not one.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrRedefinition):
		return KindRedefinition
	case errors.Is(err, ErrUnknownOperator):
		return KindUnknownOperator
	case errors.Is(err, ErrUndefinedChunk):
		return KindUndefinedChunk
	case errors.Is(err, ErrCircularReference):
		return KindCircularReference
	default:
		return ""
	}
}
