// Package layout maps a monitor.Snapshot onto the panel's fixed text rows.
package layout

import (
	"fmt"
	"unicode/utf8"

	"github.com/opd-ai/oledstat/internal/monitor"
)

// Rows is the number of lines produced for every frame.
const Rows = 8

// DefaultLineLength is the reference display's line-length limit.
const DefaultLineLength = 48

// Row numbers for each metric.
const (
	RowIdentity = iota
	RowAddress
	RowThermal
	RowCPUUser
	RowCPUSystem
	RowCPUIRQ
	RowMemory
	RowLoad
)

// Line is one formatted display line bound to its row.
type Line struct {
	Row  int
	Text string
	// Clipped is set when Text was shortened to fit the line-length limit.
	Clipped bool
}

// Frame is the input to a layout pass.
type Frame struct {
	PID      int
	Snapshot monitor.Snapshot
}

type slot struct {
	row    int
	format func(Frame) string
}

// slots is the fixed row order. Every entry is rendered on every pass,
// whatever the state of the snapshot.
var slots = [Rows]slot{
	{RowIdentity, func(f Frame) string {
		return fmt.Sprintf("OLED PID: %d", f.PID)
	}},
	{RowAddress, func(f Frame) string {
		return fmt.Sprintf("(IP): %s", f.Snapshot.NetworkAddress)
	}},
	{RowThermal, func(f Frame) string {
		return fmt.Sprintf("CPU: %.1f DDR: %.1f", f.Snapshot.CPUTemperature, f.Snapshot.SecondaryTemperature)
	}},
	{RowCPUUser, func(f Frame) string {
		return fmt.Sprintf("CPU USR: %d", f.Snapshot.CPUTime.User)
	}},
	{RowCPUSystem, func(f Frame) string {
		return fmt.Sprintf("CPU SYS: %d", f.Snapshot.CPUTime.System)
	}},
	{RowCPUIRQ, func(f Frame) string {
		return fmt.Sprintf("CPU IRQ: %d", f.Snapshot.CPUTime.IRQ)
	}},
	{RowMemory, func(f Frame) string {
		ratio, _ := f.Snapshot.Memory.UsageRatio()
		return fmt.Sprintf("MEM USAGE: %.4f", ratio)
	}},
	{RowLoad, func(f Frame) string {
		return fmt.Sprintf("R: %d SE: %d", f.Snapshot.Load.Runnable, f.Snapshot.Load.Total)
	}},
}

// Policy formats frames into lines no longer than its line-length limit.
type Policy struct {
	lineLength int
}

// New returns a Policy clipping lines to lineLength runes.
// A non-positive length selects DefaultLineLength.
func New(lineLength int) *Policy {
	if lineLength <= 0 {
		lineLength = DefaultLineLength
	}
	return &Policy{lineLength: lineLength}
}

// LineLength returns the limit lines are clipped to.
func (p *Policy) LineLength() int {
	return p.lineLength
}

// Apply renders f into exactly Rows lines, in row order.
func (p *Policy) Apply(f Frame) []Line {
	lines := make([]Line, 0, Rows)
	for _, s := range slots {
		text, clipped := clip(s.format(f), p.lineLength)
		lines = append(lines, Line{Row: s.row, Text: text, Clipped: clipped})
	}
	return lines
}

// clip shortens s to at most n runes.
func clip(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}
