package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "oledstat.yaml", `
interface: eth0
cadence: 2s
probe_timeout: 250ms
thermal:
  cpu: /tmp/cpu_temp
display:
  sink: writer
  rotation: 180
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eth0", cfg.Interface)
	assert.Equal(t, 2*time.Second, cfg.Cadence)
	assert.Equal(t, 250*time.Millisecond, cfg.ProbeTimeout)
	assert.Equal(t, "/tmp/cpu_temp", cfg.Thermal.CPU)
	assert.Equal(t, DefaultConfig().Thermal.DDR, cfg.Thermal.DDR)
	assert.Equal(t, SinkWriter, cfg.Display.Sink)
	assert.Equal(t, 180, cfg.Display.Rotation)
	assert.Equal(t, DefaultColumns, cfg.Display.Columns)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OLEDSTAT_INTERFACE", "usb0")
	t.Setenv("OLEDSTAT_DISPLAY_SINK", "writer")

	path := writeConfig(t, "oledstat.yaml", "interface: eth0\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "usb0", cfg.Interface)
	assert.Equal(t, SinkWriter, cfg.Display.Sink)
}

func TestLoadExpandsVariables(t *testing.T) {
	t.Setenv("BOARD_SYSFS", "/mnt/sys")

	path := writeConfig(t, "oledstat.yaml", `
thermal:
  cpu: ${BOARD_SYSFS}/thermal0
  ddr: ${MISSING_VAR:-/sys/ddr}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/mnt/sys/thermal0", cfg.Thermal.CPU)
	assert.Equal(t, "/sys/ddr", cfg.Thermal.DDR)
}

func TestLoadLua(t *testing.T) {
	path := writeConfig(t, "oledstat.lua", `
local base = "/sys/devices/virtual/thermal"
oled.config = {
    interface = "eth1",
    cadence = 0.5,
    probe_timeout = "100ms",
    thermal = { cpu = base .. "/zone0", ddr = base .. "/zone1" },
    display = { sink = "writer", rows = 8, columns = 16, line_length = 16 },
    log = { format = "json", file = "/var/log/oledstat.log" },
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eth1", cfg.Interface)
	assert.Equal(t, 500*time.Millisecond, cfg.Cadence)
	assert.Equal(t, 100*time.Millisecond, cfg.ProbeTimeout)
	assert.Equal(t, "/sys/devices/virtual/thermal/zone0", cfg.Thermal.CPU)
	assert.Equal(t, "/sys/devices/virtual/thermal/zone1", cfg.Thermal.DDR)
	assert.Equal(t, SinkWriter, cfg.Display.Sink)
	assert.Equal(t, 16, cfg.Display.Columns)
	assert.Equal(t, 16, cfg.Display.LineLength)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/log/oledstat.log", cfg.Log.File)
	assert.Equal(t, DefaultConfig().Proc, cfg.Proc)
}

func TestLoadLuaErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", "oled.config = {"},
		{"runtime error", "error('boom')"},
		{"config not a table", "oled.config = 3"},
		{"section not a table", "oled.config = { display = 'writer' }"},
		{"bad duration", "oled.config = { cadence = 'soon' }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "bad.lua", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "oledstat.yaml", "cadence: 0s\ndisplay:\n  sink: hdmi\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cadence")
	assert.Contains(t, err.Error(), "display.sink")
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("OLED_IF", "wlan1")
	assert.Equal(t, "wlan1", ExpandEnv("$OLED_IF"))
	assert.Equal(t, "wlan1-x", ExpandEnv("${OLED_IF}-x"))
	assert.Equal(t, "fallback", ExpandEnv("${OLED_UNSET_VAR:-fallback}"))
	assert.Equal(t, "", ExpandEnv("${OLED_UNSET_VAR}"))
	assert.Equal(t, "plain", ExpandEnv("plain"))
}
