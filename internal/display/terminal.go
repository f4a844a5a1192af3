package display

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Terminal emulates the panel inside a terminal window using tcell.
// The panel is drawn as a bordered box of rows x columns cells.
type Terminal struct {
	newScreen func() (tcell.Screen, error)
	screen    tcell.Screen
	grid      grid
	rotation  Orientation
	power     bool
	deviceID  int
	style     tcell.Style
}

// NewTerminal returns a sink drawing to the controlling terminal.
func NewTerminal() *Terminal {
	return NewTerminalWithScreen(tcell.NewScreen)
}

// NewTerminalWithScreen returns a sink drawing on screens produced by
// newScreen, e.g. a tcell.SimulationScreen in tests.
func NewTerminalWithScreen(newScreen func() (tcell.Screen, error)) *Terminal {
	return &Terminal{
		newScreen: newScreen,
		style:     tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
	}
}

// Initialize implements Sink.
func (t *Terminal) Initialize(deviceID int) error {
	screen, err := t.newScreen()
	if err != nil {
		return fmt.Errorf("no display attached to device %d: %w", deviceID, err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("no display attached to device %d: %w", deviceID, err)
	}
	t.screen = screen
	t.deviceID = deviceID
	return nil
}

// Configure implements Sink. It fails when the terminal cannot fit the
// panel and its border.
func (t *Terminal) Configure(rows, columns int) error {
	if t.screen == nil {
		return ErrNotInitialized
	}
	if rows <= 0 || columns <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", columns, rows)
	}
	w, h := t.screen.Size()
	if w < columns+2 || h < rows+2 {
		return fmt.Errorf("resolution %dx%d does not fit terminal %dx%d", columns, rows, w, h)
	}
	t.grid.resize(rows, columns)
	return nil
}

// ClearScreen implements Sink.
func (t *Terminal) ClearScreen() error {
	if t.screen == nil {
		return ErrNotInitialized
	}
	t.grid.clear()
	t.draw()
	return nil
}

// SetCursor implements Sink.
func (t *Terminal) SetCursor(column, row int) error {
	if t.screen == nil {
		return ErrNotInitialized
	}
	return t.grid.setCursor(column, row)
}

// WriteLine implements Sink. The line becomes visible on the next Flush.
func (t *Terminal) WriteLine(_ Font, text string) error {
	if t.screen == nil {
		return ErrNotInitialized
	}
	if t.grid.lines == nil {
		return fmt.Errorf("display not configured")
	}
	t.grid.put(text)
	return nil
}

// SetRotation implements Sink.
func (t *Terminal) SetRotation(o Orientation) error {
	if t.screen == nil {
		return ErrNotInitialized
	}
	t.rotation = o
	t.draw()
	return nil
}

// SetPower implements Sink.
func (t *Terminal) SetPower(on bool) error {
	if t.screen == nil {
		return ErrNotInitialized
	}
	t.power = on
	t.draw()
	return nil
}

// Flush implements Flusher.
func (t *Terminal) Flush() error {
	if t.screen == nil {
		return ErrNotInitialized
	}
	t.draw()
	return nil
}

// Shutdown implements Sink and restores the terminal.
func (t *Terminal) Shutdown() error {
	if t.screen == nil {
		return nil
	}
	t.screen.Fini()
	t.screen = nil
	return nil
}

func (t *Terminal) draw() {
	s := t.screen
	s.Clear()
	if t.grid.lines == nil {
		s.Show()
		return
	}

	border := t.style.Foreground(tcell.ColorGray)
	cols, rows := t.grid.columns, t.grid.rows
	for x := 1; x <= cols; x++ {
		s.SetContent(x, 0, tcell.RuneHLine, nil, border)
		s.SetContent(x, rows+1, tcell.RuneHLine, nil, border)
	}
	for y := 1; y <= rows; y++ {
		s.SetContent(0, y, tcell.RuneVLine, nil, border)
		s.SetContent(cols+1, y, tcell.RuneVLine, nil, border)
	}
	s.SetContent(0, 0, tcell.RuneULCorner, nil, border)
	s.SetContent(cols+1, 0, tcell.RuneURCorner, nil, border)
	s.SetContent(0, rows+1, tcell.RuneLLCorner, nil, border)
	s.SetContent(cols+1, rows+1, tcell.RuneLRCorner, nil, border)

	if t.power {
		for row, line := range t.grid.lines {
			y := t.grid.visualRow(row, t.rotation) + 1
			x := 1
			for _, r := range line {
				s.SetContent(x, y, r, nil, t.style)
				x++
			}
		}
	}
	s.Show()
}
