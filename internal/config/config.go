// Package config loads oledstat settings from YAML or Lua files, the
// environment, and built-in defaults.
package config

import (
	"time"

	"github.com/opd-ai/oledstat/internal/layout"
	"github.com/opd-ai/oledstat/internal/monitor"
)

// Sink names accepted in display.sink.
const (
	SinkTerminal = "terminal"
	SinkWriter   = "writer"
)

// Default values for configuration options.
const (
	// DefaultCadence is the pause between loop iterations.
	DefaultCadence = time.Second
	// DefaultProbeTimeout bounds a single probe read.
	DefaultProbeTimeout = 500 * time.Millisecond
	// DefaultDevice is the I2C bus number of the reference board's panel.
	DefaultDevice = 1
	// DefaultColumns fits 6-pixel glyphs on a 128-pixel wide panel.
	DefaultColumns = 21
)

// Config is the complete daemon configuration.
type Config struct {
	// Interface is the network interface whose IPv4 address is shown.
	Interface    string        `mapstructure:"interface" yaml:"interface"`
	Cadence      time.Duration `mapstructure:"cadence" yaml:"cadence"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`
	Thermal      ThermalConfig `mapstructure:"thermal" yaml:"thermal"`
	Proc         ProcConfig    `mapstructure:"proc" yaml:"proc"`
	Display      DisplayConfig `mapstructure:"display" yaml:"display"`
	Log          LogConfig     `mapstructure:"log" yaml:"log"`
}

// ThermalConfig holds the two millidegree sensor paths.
type ThermalConfig struct {
	CPU string `mapstructure:"cpu" yaml:"cpu"`
	DDR string `mapstructure:"ddr" yaml:"ddr"`
}

// ProcConfig holds the kernel text sources.
type ProcConfig struct {
	Stat    string `mapstructure:"stat" yaml:"stat"`
	LoadAvg string `mapstructure:"loadavg" yaml:"loadavg"`
}

// DisplayConfig describes the sink and the panel geometry.
type DisplayConfig struct {
	Sink       string `mapstructure:"sink" yaml:"sink"`
	Device     int    `mapstructure:"device" yaml:"device"`
	Rows       int    `mapstructure:"rows" yaml:"rows"`
	Columns    int    `mapstructure:"columns" yaml:"columns"`
	LineLength int    `mapstructure:"line_length" yaml:"line_length"`
	// Rotation is in degrees, 0 or 180.
	Rotation int `mapstructure:"rotation" yaml:"rotation"`
}

// LogConfig selects log level and handler format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	// File receives log output instead of stderr when set. The terminal
	// sink owns the tty, so logs should go elsewhere when it is used.
	File string `mapstructure:"file" yaml:"file"`
}

// DefaultConfig returns the settings of the reference board.
func DefaultConfig() Config {
	return Config{
		Interface:    monitor.DefaultInterface,
		Cadence:      DefaultCadence,
		ProbeTimeout: DefaultProbeTimeout,
		Thermal: ThermalConfig{
			CPU: monitor.DefaultCPUThermalPath,
			DDR: monitor.DefaultDDRThermalPath,
		},
		Proc: ProcConfig{
			Stat:    monitor.DefaultProcStatPath,
			LoadAvg: monitor.DefaultLoadAvgPath,
		},
		Display: DisplayConfig{
			Sink:       SinkTerminal,
			Device:     DefaultDevice,
			Rows:       layout.Rows,
			Columns:    DefaultColumns,
			LineLength: layout.DefaultLineLength,
			Rotation:   0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// defaultsMap flattens DefaultConfig into viper keys.
func defaultsMap() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"interface":           d.Interface,
		"cadence":             d.Cadence,
		"probe_timeout":       d.ProbeTimeout,
		"thermal.cpu":         d.Thermal.CPU,
		"thermal.ddr":         d.Thermal.DDR,
		"proc.stat":           d.Proc.Stat,
		"proc.loadavg":        d.Proc.LoadAvg,
		"display.sink":        d.Display.Sink,
		"display.device":      d.Display.Device,
		"display.rows":        d.Display.Rows,
		"display.columns":     d.Display.Columns,
		"display.line_length": d.Display.LineLength,
		"display.rotation":    d.Display.Rotation,
		"log.level":           d.Log.Level,
		"log.format":          d.Log.Format,
		"log.file":            d.Log.File,
	}
}
