// Package daemon runs the sample, lay out, and display loop.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/oledstat/internal/display"
	"github.com/opd-ai/oledstat/internal/layout"
	"github.com/opd-ai/oledstat/internal/logging"
	"github.com/opd-ai/oledstat/internal/monitor"
)

// Probes is the probe set for one iteration.
type Probes struct {
	// Address runs only until it has produced an address.
	Address monitor.Probe
	// Sampled runs on every iteration, in order.
	Sampled []monitor.Probe
}

// Settings are the parts of the loop that may change while running.
type Settings struct {
	Probes  Probes
	Cadence time.Duration
}

// Options configure a Daemon.
type Options struct {
	Sink     display.Sink
	Layout   *layout.Policy
	DeviceID int
	Rows     int
	Columns  int
	Rotation display.Orientation
	Settings Settings
	Logger   *slog.Logger
	// PID reports the process id shown on the first row; os.Getpid when nil.
	PID func() int
}

// Status is a point-in-time view of the daemon.
type Status struct {
	State   State
	Metrics MetricsSnapshot
}

// Daemon owns the display sink and drives the sampling loop.
type Daemon struct {
	sink     display.Sink
	layout   *layout.Policy
	deviceID int
	rows     int
	columns  int
	rotation display.Orientation
	log      *slog.Logger
	pid      func() int

	mu       sync.Mutex
	settings Settings

	state   atomic.Int32
	metrics Metrics
	failing map[monitor.ErrorSource]bool
}

// New validates opts and returns a Daemon in StateInit.
func New(opts Options) (*Daemon, error) {
	if opts.Sink == nil {
		return nil, errors.New("daemon: no display sink")
	}
	if opts.Settings.Cadence <= 0 {
		return nil, fmt.Errorf("daemon: cadence must be positive, got %s", opts.Settings.Cadence)
	}
	if opts.Rows < layout.Rows {
		return nil, fmt.Errorf("daemon: display needs at least %d rows, got %d", layout.Rows, opts.Rows)
	}
	if opts.Layout == nil {
		opts.Layout = layout.New(layout.DefaultLineLength)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.PID == nil {
		opts.PID = os.Getpid
	}

	return &Daemon{
		sink:     opts.Sink,
		layout:   opts.Layout,
		deviceID: opts.DeviceID,
		rows:     opts.Rows,
		columns:  opts.Columns,
		rotation: opts.Rotation,
		log:      opts.Logger,
		pid:      opts.PID,
		settings: opts.Settings,
		failing:  make(map[monitor.ErrorSource]bool),
	}, nil
}

// Run initializes the display and then samples until ctx is cancelled.
// It returns an *InitError if the display cannot be set up, and nil after
// cancellation. Probe and write failures never end the loop.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.initDisplay(); err != nil {
		d.state.Store(int32(StateFailed))
		return err
	}
	defer d.shutdown()

	d.state.Store(int32(StateRunning))
	d.log.Info("display ready", "device", d.deviceID, "rows", d.rows, "columns", d.columns)

	var addr addressState
	for {
		start := time.Now()
		var lines []layout.Line
		addr, lines = d.iterate(ctx, addr)
		d.render(lines)
		d.metrics.recordIteration(time.Since(start))

		wait := time.NewTimer(d.cadence())
		select {
		case <-ctx.Done():
			wait.Stop()
			d.state.Store(int32(StateStopped))
			d.log.Info("stopping", "frames", d.metrics.frames.Load())
			return nil
		case <-wait.C:
		}
	}
}

// Reload swaps in new probes and cadence; they apply from the next
// iteration. A cached network address is kept.
func (d *Daemon) Reload(s Settings) error {
	if s.Cadence <= 0 {
		return fmt.Errorf("daemon: cadence must be positive, got %s", s.Cadence)
	}
	d.mu.Lock()
	d.settings = s
	d.mu.Unlock()
	d.metrics.reloads.Add(1)
	return nil
}

// Status returns the current state and loop counters.
func (d *Daemon) Status() Status {
	return Status{
		State:   State(d.state.Load()),
		Metrics: d.metrics.Snapshot(),
	}
}

func (d *Daemon) current() Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings
}

func (d *Daemon) cadence() time.Duration {
	return d.current().Cadence
}

// initDisplay brings the sink up. After a successful Initialize any later
// failure releases the sink before returning.
func (d *Daemon) initDisplay() error {
	if err := d.sink.Initialize(d.deviceID); err != nil {
		d.log.Error("no display attached", "device", d.deviceID, "error", err)
		return &InitError{Step: "initialize", DeviceID: d.deviceID, Err: err}
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"configure", func() error { return d.sink.Configure(d.rows, d.columns) }},
		{"clear", d.sink.ClearScreen},
		{"rotate", func() error { return d.sink.SetRotation(d.rotation) }},
		{"power on", func() error { return d.sink.SetPower(true) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			d.log.Error("display setup failed", "device", d.deviceID, "step", step.name, "error", err)
			if serr := d.sink.Shutdown(); serr != nil {
				d.log.Warn("display shutdown failed", "error", serr)
			}
			return &InitError{Step: step.name, DeviceID: d.deviceID, Err: err}
		}
	}
	return nil
}

func (d *Daemon) shutdown() {
	if err := d.sink.Shutdown(); err != nil {
		d.log.Warn("display shutdown failed", "error", err)
	}
}

// iterate builds one fresh snapshot and lays it out. The address probe only
// runs while addr is unresolved; afterwards the cached value is used.
func (d *Daemon) iterate(ctx context.Context, addr addressState) (addressState, []layout.Line) {
	s := d.current()

	var snap monitor.Snapshot
	probes := make([]monitor.Probe, 0, len(s.Probes.Sampled)+1)
	if addr.resolved {
		snap.NetworkAddress = addr.addr
	} else if s.Probes.Address != nil {
		probes = append(probes, s.Probes.Address)
	}
	probes = append(probes, s.Probes.Sampled...)

	err := monitor.CollectAll(ctx, &snap, probes...)
	d.report(monitor.AsUpdateError(err))

	next := addr.observe(snap.NetworkAddress)
	if next.resolved && !addr.resolved {
		d.log.Info("network address resolved", "address", next.addr)
	}

	return next, d.layout.Apply(layout.Frame{PID: d.pid(), Snapshot: snap})
}

// report logs a probe's first failure at warn, repeats at debug, and its
// recovery at info.
func (d *Daemon) report(ue *monitor.UpdateError) {
	now := make(map[monitor.ErrorSource]bool)
	if ue != nil {
		d.metrics.probeFailures.Add(int64(len(ue.Errors)))
		for _, src := range ue.Sources() {
			now[src] = true
			errs := ue.BySource(src)
			if d.failing[src] {
				d.log.Debug("probe still failing", "source", src, "error", errs[0].Err)
				continue
			}
			d.log.Warn("probe failed", "source", src, "error", errs[0].Err)
		}
	}
	for src := range d.failing {
		if !now[src] {
			d.log.Info("probe recovered", "source", src)
		}
	}
	d.failing = now
}

// render writes every line at its row. Write failures are logged and the
// frame carries on; the next iteration rewrites every row anyway.
func (d *Daemon) render(lines []layout.Line) {
	var failed int
	var firstErr error
	for _, line := range lines {
		if line.Clipped {
			d.log.Debug("line clipped", "row", line.Row, "limit", d.layout.LineLength())
		}
		err := d.sink.SetCursor(0, line.Row)
		if err == nil {
			err = d.sink.WriteLine(display.FontSmall, line.Text)
		}
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if f, ok := d.sink.(display.Flusher); ok {
		if err := f.Flush(); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failed > 0 {
		d.metrics.writeFailures.Add(int64(failed))
		d.log.Warn("display write failed", "failures", failed, "error", firstErr)
	}
}
