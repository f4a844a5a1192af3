package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/oledstat/internal/monitor"
)

func TestApplyReferenceFrame(t *testing.T) {
	cpu, err := monitor.ParseCPUTimeLine("cpu 100 5 50 800 10 2 1 0 0 0")
	require.NoError(t, err)
	load, err := monitor.ParseLoadLine("0.50 0.30 0.10 2/150 4321")
	require.NoError(t, err)

	frame := Frame{
		PID: 812,
		Snapshot: monitor.Snapshot{
			NetworkAddress:       "192.168.1.23",
			CPUTemperature:       45.0,
			SecondaryTemperature: 38.46,
			Memory:               monitor.Memory{TotalBytes: 4000, FreeBytes: 1000},
			CPUTime:              cpu,
			Load:                 load,
		},
	}

	lines := New(DefaultLineLength).Apply(frame)

	want := []string{
		"OLED PID: 812",
		"(IP): 192.168.1.23",
		"CPU: 45.0 DDR: 38.5",
		"CPU USR: 100",
		"CPU SYS: 50",
		"CPU IRQ: 2",
		"MEM USAGE: 0.7500",
		"R: 2 SE: 150",
	}
	require.Len(t, lines, Rows)
	for i, line := range lines {
		assert.Equal(t, i, line.Row)
		assert.Equal(t, want[i], line.Text)
		assert.False(t, line.Clipped)
	}
}

func TestApplyIRQUsesSixthCounter(t *testing.T) {
	cpu, err := monitor.ParseCPUTimeLine("cpu 100 5 50 800 10 1 2 0 0 0")
	require.NoError(t, err)

	lines := New(0).Apply(Frame{Snapshot: monitor.Snapshot{CPUTime: cpu}})
	assert.Equal(t, "CPU USR: 100", lines[RowCPUUser].Text)
	assert.Equal(t, "CPU SYS: 50", lines[RowCPUSystem].Text)
	assert.Equal(t, "CPU IRQ: 1", lines[RowCPUIRQ].Text)
}

func TestApplyEmptySnapshotStillEmitsEveryRow(t *testing.T) {
	lines := New(DefaultLineLength).Apply(Frame{PID: 1})

	want := []string{
		"OLED PID: 1",
		"(IP): ",
		"CPU: 0.0 DDR: 0.0",
		"CPU USR: 0",
		"CPU SYS: 0",
		"CPU IRQ: 0",
		"MEM USAGE: 0.0000",
		"R: 0 SE: 0",
	}
	require.Len(t, lines, Rows)
	for i, line := range lines {
		assert.Equal(t, i, line.Row)
		assert.Equal(t, want[i], line.Text)
	}
}

func TestApplyClipsToLineLength(t *testing.T) {
	p := New(12)
	lines := p.Apply(Frame{
		PID:      4194304,
		Snapshot: monitor.Snapshot{CPUTime: monitor.CPUTime{User: 18446744073709551615}},
	})

	for _, line := range lines {
		assert.LessOrEqual(t, len([]rune(line.Text)), 12, "row %d: %q", line.Row, line.Text)
	}
	assert.Equal(t, "OLED PID: 41", lines[RowIdentity].Text)
	assert.True(t, lines[RowIdentity].Clipped)
	assert.True(t, strings.HasPrefix(lines[RowCPUUser].Text, "CPU USR: 184"))
	assert.Equal(t, 12, p.LineLength())
}

func TestClipRunes(t *testing.T) {
	got, clipped := clip("DDR: 40°C ok", 9)
	assert.Equal(t, "DDR: 40°C", got)
	assert.True(t, clipped)

	got, clipped = clip("short", 9)
	assert.Equal(t, "short", got)
	assert.False(t, clipped)
}

func TestNewDefaultsLineLength(t *testing.T) {
	assert.Equal(t, DefaultLineLength, New(-3).LineLength())
}
