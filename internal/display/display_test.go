package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRotation(t *testing.T) {
	o, err := ParseRotation(0)
	require.NoError(t, err)
	assert.Equal(t, RotateNone, o)

	o, err = ParseRotation(180)
	require.NoError(t, err)
	assert.Equal(t, Rotate180, o)

	_, err = ParseRotation(90)
	assert.Error(t, err)
}

func TestGridPut(t *testing.T) {
	var g grid
	g.resize(2, 8)

	require.NoError(t, g.setCursor(0, 0))
	g.put("CPU USR: 123456")
	assert.Equal(t, "CPU USR:", g.lines[0])

	require.NoError(t, g.setCursor(3, 1))
	g.put("ab")
	assert.Equal(t, "   ab", g.lines[1])

	require.NoError(t, g.setCursor(0, 1))
	g.put("x")
	assert.Equal(t, "x", g.lines[1])

	assert.Error(t, g.setCursor(0, 2))
	assert.Error(t, g.setCursor(8, 0))
}

func TestWriterFrames(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	assert.ErrorIs(t, w.Configure(2, 10), ErrNotInitialized)
	require.NoError(t, w.Initialize(1))
	require.NoError(t, w.Configure(2, 10))
	require.NoError(t, w.ClearScreen())
	require.NoError(t, w.SetPower(true))

	require.NoError(t, w.SetCursor(0, 0))
	require.NoError(t, w.WriteLine(FontSmall, "OLED PID: 42"))
	require.NoError(t, w.SetCursor(0, 1))
	require.NoError(t, w.WriteLine(FontSmall, "R: 2"))
	require.NoError(t, w.Flush())

	assert.Equal(t, "OLED PID: \nR: 2\n----------\n", buf.String())
}

func TestWriterRotationAndPower(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Initialize(1))
	require.NoError(t, w.Configure(2, 4))
	require.NoError(t, w.SetRotation(Rotate180))

	require.NoError(t, w.SetCursor(0, 0))
	require.NoError(t, w.WriteLine(FontSmall, "top"))
	require.NoError(t, w.Flush())
	assert.Empty(t, buf.String(), "powered-off display must not print")

	require.NoError(t, w.SetPower(true))
	require.NoError(t, w.Flush())
	assert.Equal(t, "\ntop\n----\n", buf.String())

	require.NoError(t, w.Shutdown())
	assert.ErrorIs(t, w.Flush(), ErrNotInitialized)
}

func TestWriterInitializeWithoutOutput(t *testing.T) {
	assert.Error(t, NewWriter(nil).Initialize(3))
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(func() (tcell.Screen, error) { return sim, nil })
	require.NoError(t, term.Initialize(1))
	t.Cleanup(func() { _ = term.Shutdown() })
	return term, sim
}

// rowText returns the runes drawn inside the panel border on row y.
func rowText(sim tcell.SimulationScreen, y, columns int) string {
	cells, width, _ := sim.GetContents()
	var sb strings.Builder
	for x := 1; x <= columns; x++ {
		cell := cells[(y+1)*width+x]
		if len(cell.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(cell.Runes[0])
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestTerminalDrawsPanel(t *testing.T) {
	term, sim := newSimTerminal(t)

	require.NoError(t, term.Configure(8, 21))
	require.NoError(t, term.ClearScreen())
	require.NoError(t, term.SetPower(true))

	require.NoError(t, term.SetCursor(0, 3))
	require.NoError(t, term.WriteLine(FontSmall, "CPU USR: 100"))
	require.NoError(t, term.SetCursor(0, 7))
	require.NoError(t, term.WriteLine(FontSmall, "R: 2 SE: 150"))
	require.NoError(t, term.Flush())

	assert.Equal(t, "CPU USR: 100", rowText(sim, 3, 21))
	assert.Equal(t, "R: 2 SE: 150", rowText(sim, 7, 21))
	assert.Equal(t, "", rowText(sim, 0, 21))
}

func TestTerminalRotationAndPowerOff(t *testing.T) {
	term, sim := newSimTerminal(t)
	require.NoError(t, term.Configure(8, 21))
	require.NoError(t, term.SetPower(true))
	require.NoError(t, term.SetRotation(Rotate180))

	require.NoError(t, term.SetCursor(0, 0))
	require.NoError(t, term.WriteLine(FontSmall, "OLED PID: 9"))
	require.NoError(t, term.Flush())
	assert.Equal(t, "OLED PID: 9", rowText(sim, 7, 21))

	require.NoError(t, term.SetPower(false))
	assert.Equal(t, "", rowText(sim, 7, 21))
}

func TestTerminalConfigureTooLarge(t *testing.T) {
	term, _ := newSimTerminal(t)
	assert.Error(t, term.Configure(200, 21))
}

func TestTerminalUninitialized(t *testing.T) {
	term := NewTerminalWithScreen(func() (tcell.Screen, error) { return tcell.NewSimulationScreen(""), nil })
	assert.ErrorIs(t, term.Configure(8, 21), ErrNotInitialized)
	assert.ErrorIs(t, term.WriteLine(FontSmall, "x"), ErrNotInitialized)
	assert.NoError(t, term.Shutdown())
}
