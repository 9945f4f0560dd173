package itinerary

import (
	"errors"
	"fmt"
)

var (
	// ErrGeneration matches every failure returned by Generate.
	ErrGeneration = errors.New("trip generation failed")
	// ErrParse means the model did not return usable structured output.
	ErrParse = errors.New("model did not return usable structured output")
	// ErrTransport means the model invocation itself failed (network, auth, quota).
	ErrTransport = errors.New("model invocation failed")
	// ErrInvalidTrip is returned by the decoder for malformed payloads.
	ErrInvalidTrip = errors.New("invalid trip payload")
	ErrBadRequest  = errors.New("bad request")
)

// GenerationError carries the failure kind (ErrParse or ErrTransport) and the cause.
// errors.Is matches both the kind and ErrGeneration.
type GenerationError struct {
	Kind error
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration || target == e.Kind
}

func (e *GenerationError) Unwrap() error { return e.Err }

func parseError(err error) error {
	return &GenerationError{Kind: ErrParse, Err: err}
}

func transportError(err error) error {
	return &GenerationError{Kind: ErrTransport, Err: err}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTrip, fmt.Sprintf(format, args...))
}
