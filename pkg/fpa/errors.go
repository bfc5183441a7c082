package fpa

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification and aggregation failures.
var (
	// ErrInvalidInput marks malformed component counts.
	ErrInvalidInput = errors.New("invalid component counts")
	// ErrInvalidGSC marks a malformed general system characteristics vector.
	ErrInvalidGSC = errors.New("invalid GSC vector")
)

// InputError describes why a component's counts could not be classified.
type InputError struct {
	Kind   Kind
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("component %s: %s", e.Kind, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (*InputError) Unwrap() error { return ErrInvalidInput }

// GSCError describes why a GSC vector was rejected.
type GSCError struct {
	Reason string
	Index  int
	Value  int
}

func (e *GSCError) Error() string {
	return fmt.Sprintf("gsc vector: %s", e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidGSC).
func (*GSCError) Unwrap() error { return ErrInvalidGSC }
