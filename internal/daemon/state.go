package daemon

import "fmt"

// State is the daemon lifecycle state.
type State int32

const (
	// StateInit is the state before and during display initialization.
	StateInit State = iota
	// StateRunning is the sampling loop.
	StateRunning
	// StateFailed is terminal: the display could not be brought up.
	StateFailed
	// StateStopped is terminal: the loop was cancelled from outside.
	StateStopped
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// InitError reports which display setup step failed. It is the only
// error that stops the daemon.
type InitError struct {
	Step     string
	DeviceID int
	Err      error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("display device %d: %s: %v", e.DeviceID, e.Step, e.Err)
}

// Unwrap returns the underlying sink error.
func (e *InitError) Unwrap() error {
	return e.Err
}

// addressState carries the network address between iterations. Once
// resolved it is never queried again.
type addressState struct {
	resolved bool
	addr     string
}

// observe returns the state after an iteration that produced addr.
func (a addressState) observe(addr string) addressState {
	if a.resolved || addr == "" {
		return a
	}
	return addressState{resolved: true, addr: addr}
}
