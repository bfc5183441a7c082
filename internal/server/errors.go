package server

import (
	"errors"

	"github.com/fpakit/fpcost/pkg/estimate"
	"github.com/fpakit/fpcost/pkg/fpa"
	"github.com/fpakit/fpcost/pkg/trend"
)

// ErrInvalidRequest marks a request that failed parsing before it reached
// the engine.
var ErrInvalidRequest = errors.New("invalid request")

// IsValidationError reports whether an error comes from the engine's input
// validation taxonomy. Validation failures map to 400 responses carrying the
// engine's own message; anything else is an internal error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, fpa.ErrInvalidInput) ||
		errors.Is(err, fpa.ErrInvalidGSC) ||
		errors.Is(err, estimate.ErrInvalidConfig) ||
		errors.Is(err, trend.ErrInsufficientData)
}
