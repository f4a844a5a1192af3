package config

import (
	"fmt"
	"strings"

	"github.com/opd-ai/oledstat/internal/display"
	"github.com/opd-ai/oledstat/internal/layout"
	"github.com/opd-ai/oledstat/internal/logging"
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Validate checks cfg for values the daemon cannot run with.
func Validate(cfg *Config) *ValidationResult {
	vr := &ValidationResult{}

	if strings.TrimSpace(cfg.Interface) == "" {
		vr.AddError("interface", "must not be empty")
	}
	if cfg.Cadence <= 0 {
		vr.AddError("cadence", fmt.Sprintf("must be positive, got %s", cfg.Cadence))
	}
	if cfg.ProbeTimeout <= 0 {
		vr.AddError("probe_timeout", fmt.Sprintf("must be positive, got %s", cfg.ProbeTimeout))
	} else if cfg.Cadence > 0 && cfg.ProbeTimeout > cfg.Cadence {
		vr.AddWarning("probe_timeout", "longer than cadence; a hung sensor will stretch each frame")
	}

	for field, path := range map[string]string{
		"thermal.cpu":  cfg.Thermal.CPU,
		"thermal.ddr":  cfg.Thermal.DDR,
		"proc.stat":    cfg.Proc.Stat,
		"proc.loadavg": cfg.Proc.LoadAvg,
	} {
		if path == "" {
			vr.AddError(field, "must not be empty")
		}
	}

	switch cfg.Display.Sink {
	case SinkTerminal, SinkWriter:
	default:
		vr.AddError("display.sink", fmt.Sprintf("unknown sink %q (want %s or %s)", cfg.Display.Sink, SinkTerminal, SinkWriter))
	}
	if cfg.Display.Device < 0 {
		vr.AddError("display.device", "must not be negative")
	}
	if cfg.Display.Rows < layout.Rows {
		vr.AddError("display.rows", fmt.Sprintf("must be at least %d, got %d", layout.Rows, cfg.Display.Rows))
	}
	if cfg.Display.Columns < 1 {
		vr.AddError("display.columns", "must be positive")
	}
	if cfg.Display.LineLength < 1 {
		vr.AddError("display.line_length", "must be positive")
	}
	if _, err := display.ParseRotation(cfg.Display.Rotation); err != nil {
		vr.AddError("display.rotation", err.Error())
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		vr.AddError("log.level", err.Error())
	}
	if _, err := logging.ParseFormat(cfg.Log.Format); err != nil {
		vr.AddError("log.format", err.Error())
	}

	return vr
}
