package monitor

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default sensor paths on the reference board.
const (
	DefaultCPUThermalPath = "/sys/devices/virtual/thermal/thermal_zone0/hwmon0/temp1_input"
	DefaultDDRThermalPath = "/sys/devices/virtual/thermal/thermal_zone1/hwmon1/temp1_input"
)

// ThermalProbe reads a millidegree sensor file and stores degrees Celsius
// into one of the snapshot's temperature fields.
type ThermalProbe struct {
	source ErrorSource
	path   string
	assign func(*Snapshot, float64)
}

// NewCPUThermalProbe returns a probe filling Snapshot.CPUTemperature.
func NewCPUThermalProbe(path string) *ThermalProbe {
	return &ThermalProbe{
		source: ErrorSourceThermalCPU,
		path:   path,
		assign: func(s *Snapshot, c float64) { s.CPUTemperature = c },
	}
}

// NewDDRThermalProbe returns a probe filling Snapshot.SecondaryTemperature.
func NewDDRThermalProbe(path string) *ThermalProbe {
	return &ThermalProbe{
		source: ErrorSourceThermalDDR,
		path:   path,
		assign: func(s *Snapshot, c float64) { s.SecondaryTemperature = c },
	}
}

// Source implements Probe.
func (p *ThermalProbe) Source() ErrorSource { return p.source }

// Path returns the sensor file the probe reads.
func (p *ThermalProbe) Path() string { return p.path }

// Collect implements Probe. On failure the temperature stays 0.
func (p *ThermalProbe) Collect(_ context.Context, snap *Snapshot) error {
	celsius, err := ReadCelsius(p.path)
	if err != nil {
		return NewComponentError(p.source, err)
	}
	p.assign(snap, celsius)
	return nil
}

// ReadCelsius reads an integer millidegree value from path and converts it
// to degrees Celsius.
func ReadCelsius(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return parseMillidegrees(string(data))
}

// parseMillidegrees parses the first whitespace-separated token of s.
func parseMillidegrees(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty sensor reading")
	}
	milli, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing sensor reading: %w", err)
	}
	return float64(milli) / 1000.0, nil
}
