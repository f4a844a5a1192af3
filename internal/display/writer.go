package display

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer is a headless sink printing each completed frame as plain text.
type Writer struct {
	out      io.Writer
	grid     grid
	ready    bool
	power    bool
	rotation Orientation
	deviceID int
}

// NewWriter returns a sink writing frames to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// Initialize implements Sink.
func (w *Writer) Initialize(deviceID int) error {
	if w.out == nil {
		return fmt.Errorf("device %d: no output attached", deviceID)
	}
	w.deviceID = deviceID
	w.ready = true
	return nil
}

// Configure implements Sink.
func (w *Writer) Configure(rows, columns int) error {
	if !w.ready {
		return ErrNotInitialized
	}
	if rows <= 0 || columns <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", columns, rows)
	}
	w.grid.resize(rows, columns)
	return nil
}

// ClearScreen implements Sink.
func (w *Writer) ClearScreen() error {
	if !w.ready {
		return ErrNotInitialized
	}
	w.grid.clear()
	return nil
}

// SetCursor implements Sink.
func (w *Writer) SetCursor(column, row int) error {
	if !w.ready {
		return ErrNotInitialized
	}
	return w.grid.setCursor(column, row)
}

// WriteLine implements Sink.
func (w *Writer) WriteLine(_ Font, text string) error {
	if !w.ready {
		return ErrNotInitialized
	}
	if w.grid.lines == nil {
		return fmt.Errorf("display not configured")
	}
	w.grid.put(text)
	return nil
}

// SetRotation implements Sink.
func (w *Writer) SetRotation(o Orientation) error {
	if !w.ready {
		return ErrNotInitialized
	}
	w.rotation = o
	return nil
}

// SetPower implements Sink.
func (w *Writer) SetPower(on bool) error {
	if !w.ready {
		return ErrNotInitialized
	}
	w.power = on
	return nil
}

// Flush prints the current frame followed by a separator line.
// Nothing is printed while the display is powered off.
func (w *Writer) Flush() error {
	if !w.ready {
		return ErrNotInitialized
	}
	if !w.power {
		return nil
	}
	bw := bufio.NewWriter(w.out)
	for i := 0; i < w.grid.rows; i++ {
		fmt.Fprintln(bw, w.grid.lines[w.grid.visualRow(i, w.rotation)])
	}
	fmt.Fprintln(bw, strings.Repeat("-", w.grid.columns))
	return bw.Flush()
}

// Shutdown implements Sink.
func (w *Writer) Shutdown() error {
	w.ready = false
	return nil
}
