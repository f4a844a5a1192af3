package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// Probe reads one external source and fills its part of a Snapshot.
// A returned error is diagnostic only: the fields the probe owns must be
// left at their zero value and the caller continues.
type Probe interface {
	Source() ErrorSource
	Collect(ctx context.Context, snap *Snapshot) error
}

// CollectAll runs the probes in order against snap. Failures are gathered
// into an *UpdateError; a nil return means every probe succeeded.
func CollectAll(ctx context.Context, snap *Snapshot, probes ...Probe) error {
	var errs []*ComponentError

	for _, p := range probes {
		if p == nil {
			continue
		}
		if err := p.Collect(ctx, snap); err != nil {
			var ce *ComponentError
			if !errors.As(err, &ce) {
				ce = NewComponentError(p.Source(), err)
			}
			errs = append(errs, ce)
		}
	}

	if len(errs) > 0 {
		return &UpdateError{Errors: errs}
	}
	return nil
}

// boundedProbe runs a probe on its own goroutine and gives up after timeout.
// The probe writes into a scratch copy of the snapshot which is only
// published on success, so a late or failed read never leaves partial data.
type boundedProbe struct {
	probe   Probe
	timeout time.Duration
	busy    atomic.Bool
}

// Bounded wraps p so that each Collect returns within timeout. While a
// timed-out call is still running, further calls are skipped with
// ErrProbeBusy instead of stacking up blocked goroutines.
// A non-positive timeout returns p unchanged.
func Bounded(p Probe, timeout time.Duration) Probe {
	if timeout <= 0 {
		return p
	}
	return &boundedProbe{probe: p, timeout: timeout}
}

func (b *boundedProbe) Source() ErrorSource {
	return b.probe.Source()
}

func (b *boundedProbe) Collect(ctx context.Context, snap *Snapshot) error {
	if !b.busy.CompareAndSwap(false, true) {
		return NewComponentError(b.probe.Source(), ErrProbeBusy)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	scratch := *snap
	done := make(chan error, 1)
	go func() {
		defer b.busy.Store(false)
		done <- b.probe.Collect(ctx, &scratch)
	}()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
		*snap = scratch
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return NewComponentError(b.probe.Source(), ErrProbeTimeout)
		}
		return NewComponentError(b.probe.Source(), ctx.Err())
	}
}
