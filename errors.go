package maxcov

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("invalid instance")
	ErrParse       = errors.New("malformed instance file")
	ErrConsistency = errors.New("inconsistent solution")
)

// ValidationError names the instance invariant that does not hold.
type ValidationError struct {
	Invariant string
	Detail    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid instance (%s): %s", e.Invariant, e.Detail)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(invariant, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Invariant: invariant, Detail: fmt.Sprintf(format, args...)}
}

// ParseError reports a structurally broken instance file. Line is 1-based.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Msg, e.Err.Error())
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ConsistencyError means an engine solution does not decompose into per-vehicle
// closed tours. It points at a broken formulation and must never be patched over.
// Vehicle is -1 when the problem is not tied to one vehicle.
type ConsistencyError struct {
	Vehicle int
	Msg     string
}

func (e *ConsistencyError) Error() string {
	if e.Vehicle < 0 {
		return "inconsistent solution: " + e.Msg
	}
	return fmt.Sprintf("inconsistent solution for vehicle %d: %s", e.Vehicle, e.Msg)
}

func (e *ConsistencyError) Is(target error) bool { return target == ErrConsistency }

func inconsistent(vehicle int, format string, args ...interface{}) *ConsistencyError {
	return &ConsistencyError{Vehicle: vehicle, Msg: fmt.Sprintf(format, args...)}
}
