package monitor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorSource identifies which probe produced an error.
type ErrorSource string

const (
	ErrorSourceAddress    ErrorSource = "address"
	ErrorSourceThermalCPU ErrorSource = "thermal_cpu"
	ErrorSourceThermalDDR ErrorSource = "thermal_ddr"
	ErrorSourceCPUTime    ErrorSource = "cputime"
	ErrorSourceMemory     ErrorSource = "memory"
	ErrorSourceLoad       ErrorSource = "loadavg"
)

// ErrProbeBusy is reported when a probe is skipped because a previous
// invocation has not returned yet.
var ErrProbeBusy = errors.New("previous read still in progress")

// ErrProbeTimeout is reported when a probe does not finish in time.
var ErrProbeTimeout = errors.New("read timed out")

// ComponentError wraps an error with the probe that produced it.
// It preserves the original error for inspection via errors.Is/errors.As.
type ComponentError struct {
	Source ErrorSource
	Err    error
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *ComponentError) Unwrap() error {
	return e.Err
}

// NewComponentError creates a new ComponentError.
func NewComponentError(source ErrorSource, err error) *ComponentError {
	return &ComponentError{Source: source, Err: err}
}

// UpdateError aggregates the probe failures of a single iteration.
type UpdateError struct {
	Errors []*ComponentError
}

// Error implements the error interface.
func (e *UpdateError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("update error: %v", e.Errors[0])
	}
	msgs := make([]string, len(e.Errors))
	for i, ce := range e.Errors {
		msgs[i] = ce.Error()
	}
	return fmt.Sprintf("update errors (%d): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the underlying errors slice for multi-error support.
func (e *UpdateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ce := range e.Errors {
		errs[i] = ce
	}
	return errs
}

// HasSource returns true if any error originated from the given source.
func (e *UpdateError) HasSource(source ErrorSource) bool {
	for _, ce := range e.Errors {
		if ce.Source == source {
			return true
		}
	}
	return false
}

// BySource returns all errors from the specified source.
func (e *UpdateError) BySource(source ErrorSource) []*ComponentError {
	var result []*ComponentError
	for _, ce := range e.Errors {
		if ce.Source == source {
			result = append(result, ce)
		}
	}
	return result
}

// Sources returns the distinct failing sources in the order they failed.
func (e *UpdateError) Sources() []ErrorSource {
	seen := make(map[ErrorSource]bool, len(e.Errors))
	var out []ErrorSource
	for _, ce := range e.Errors {
		if !seen[ce.Source] {
			seen[ce.Source] = true
			out = append(out, ce.Source)
		}
	}
	return out
}

// AsUpdateError attempts to extract an UpdateError from an error.
// Returns nil if the error is not an UpdateError.
func AsUpdateError(err error) *UpdateError {
	var ue *UpdateError
	if errors.As(err, &ue) {
		return ue
	}
	return nil
}
