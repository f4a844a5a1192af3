// Package displaytest provides an in-memory display.Sink for tests.
package displaytest

import (
	"fmt"
	"sync"

	"github.com/opd-ai/oledstat/internal/display"
)

// Step names a Sink method, used to inject failures.
type Step string

const (
	StepInitialize  Step = "initialize"
	StepConfigure   Step = "configure"
	StepClearScreen Step = "clear"
	StepSetCursor   Step = "cursor"
	StepWriteLine   Step = "write"
	StepSetRotation Step = "rotation"
	StepSetPower    Step = "power"
	StepFlush       Step = "flush"
	StepShutdown    Step = "shutdown"
)

// Recorder implements display.Sink and display.Flusher, keeping every
// completed frame in memory.
type Recorder struct {
	mu       sync.Mutex
	fail     map[Step]error
	calls    []Step
	rows     int
	columns  int
	cursor   int
	current  map[int]string
	frames   [][]string
	onFlush  func(frame []string)
	deviceID int
	rotation display.Orientation
	power    bool
	shutdown bool
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{fail: make(map[Step]error), current: make(map[int]string)}
}

// FailOn makes every call of step return err.
func (r *Recorder) FailOn(step Step, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[step] = err
}

// OnFlush registers fn to run after each frame is recorded.
func (r *Recorder) OnFlush(fn func(frame []string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFlush = fn
}

func (r *Recorder) record(step Step) error {
	r.calls = append(r.calls, step)
	return r.fail[step]
}

// Initialize implements display.Sink.
func (r *Recorder) Initialize(deviceID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deviceID = deviceID
	return r.record(StepInitialize)
}

// Configure implements display.Sink.
func (r *Recorder) Configure(rows, columns int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows, r.columns = rows, columns
	return r.record(StepConfigure)
}

// ClearScreen implements display.Sink.
func (r *Recorder) ClearScreen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = make(map[int]string)
	return r.record(StepClearScreen)
}

// SetCursor implements display.Sink.
func (r *Recorder) SetCursor(column, row int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(StepSetCursor); err != nil {
		return err
	}
	if column != 0 {
		return fmt.Errorf("recorder only supports column 0, got %d", column)
	}
	r.cursor = row
	return nil
}

// WriteLine implements display.Sink.
func (r *Recorder) WriteLine(_ display.Font, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(StepWriteLine); err != nil {
		return err
	}
	r.current[r.cursor] = text
	return nil
}

// SetRotation implements display.Sink.
func (r *Recorder) SetRotation(o display.Orientation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotation = o
	return r.record(StepSetRotation)
}

// SetPower implements display.Sink.
func (r *Recorder) SetPower(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.power = on
	return r.record(StepSetPower)
}

// Flush implements display.Flusher and records the current frame.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	if err := r.record(StepFlush); err != nil {
		r.mu.Unlock()
		return err
	}
	frame := make([]string, r.rows)
	for row, text := range r.current {
		if row >= 0 && row < len(frame) {
			frame[row] = text
		}
	}
	r.frames = append(r.frames, frame)
	fn := r.onFlush
	r.mu.Unlock()

	if fn != nil {
		fn(frame)
	}
	return nil
}

// Shutdown implements display.Sink.
func (r *Recorder) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdown = true
	r.calls = append(r.calls, StepShutdown)
	return nil
}

// Frames returns a copy of every recorded frame.
func (r *Recorder) Frames() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.frames))
	for i, f := range r.frames {
		out[i] = append([]string(nil), f...)
	}
	return out
}

// Calls returns the sequence of sink methods invoked so far.
func (r *Recorder) Calls() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Step(nil), r.calls...)
}

// IsShutdown reports whether Shutdown was called.
func (r *Recorder) IsShutdown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shutdown
}

// Resolution returns the configured rows and columns.
func (r *Recorder) Resolution() (rows, columns int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows, r.columns
}

// DeviceID returns the id passed to Initialize.
func (r *Recorder) DeviceID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deviceID
}

// Powered reports the last SetPower state.
func (r *Recorder) Powered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.power
}

// Rotation returns the last orientation set.
func (r *Recorder) Rotation() display.Orientation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rotation
}

var (
	_ display.Sink    = (*Recorder)(nil)
	_ display.Flusher = (*Recorder)(nil)
)
