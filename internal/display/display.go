// Package display defines the line-oriented sink the status loop writes to,
// plus the sinks shipped with oledstat.
package display

import (
	"errors"
	"fmt"
)

// Font selects one of the sink's built-in fonts.
type Font int

// FontSmall is the default small font.
const FontSmall Font = 0

// Orientation is the panel rotation.
type Orientation uint8

const (
	// RotateNone draws rows top to bottom.
	RotateNone Orientation = 0
	// Rotate180 draws the panel upside down.
	Rotate180 Orientation = 1
)

// ParseRotation maps a rotation in degrees to an Orientation.
func ParseRotation(degrees int) (Orientation, error) {
	switch degrees {
	case 0:
		return RotateNone, nil
	case 180:
		return Rotate180, nil
	default:
		return RotateNone, fmt.Errorf("unsupported rotation %d (want 0 or 180)", degrees)
	}
}

// ErrNotInitialized is returned by sinks used before Initialize.
var ErrNotInitialized = errors.New("display not initialized")

// Sink is a character display addressed by cursor position and whole lines.
// Bus and hardware concerns stay behind this interface.
type Sink interface {
	Initialize(deviceID int) error
	Configure(rows, columns int) error
	ClearScreen() error
	SetCursor(column, row int) error
	// WriteLine writes text starting at the last cursor position. Overflow
	// past the line length is handled by the sink.
	WriteLine(font Font, text string) error
	SetRotation(o Orientation) error
	SetPower(on bool) error
	Shutdown() error
}

// Flusher is implemented by sinks that buffer lines until a frame is complete.
type Flusher interface {
	Flush() error
}

// grid is the character buffer shared by the shipped sinks.
type grid struct {
	rows    int
	columns int
	lines   []string
	col     int
	row     int
}

func (g *grid) resize(rows, columns int) {
	g.rows, g.columns = rows, columns
	g.lines = make([]string, rows)
	g.col, g.row = 0, 0
}

func (g *grid) clear() {
	for i := range g.lines {
		g.lines[i] = ""
	}
}

func (g *grid) setCursor(column, row int) error {
	if row < 0 || row >= g.rows || column < 0 || column >= g.columns {
		return fmt.Errorf("cursor (%d,%d) outside %dx%d display", column, row, g.columns, g.rows)
	}
	g.col, g.row = column, row
	return nil
}

// put places text at the cursor, replacing the rest of the row and dropping
// whatever does not fit in the row.
func (g *grid) put(text string) {
	runes := []rune(text)
	if room := g.columns - g.col; len(runes) > room {
		runes = runes[:room]
	}
	prefix := []rune(g.lines[g.row])
	if len(prefix) > g.col {
		prefix = prefix[:g.col]
	}
	for len(prefix) < g.col {
		prefix = append(prefix, ' ')
	}
	g.lines[g.row] = string(append(prefix, runes...))
}

// visualRow maps a logical row to the drawn row for the orientation.
func (g *grid) visualRow(row int, o Orientation) int {
	if o == Rotate180 {
		return g.rows - 1 - row
	}
	return row
}
