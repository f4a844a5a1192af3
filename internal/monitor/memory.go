package monitor

import (
	"context"
	"errors"
	"fmt"
)

// errMemoryUnavailable is returned when the kernel reports zero total memory.
var errMemoryUnavailable = errors.New("total memory reported as zero")

// MemoryProbe fills Snapshot.Memory from the sysinfo(2) totals.
type MemoryProbe struct {
	query func() (Memory, error)
}

// NewMemoryProbe creates a MemoryProbe backed by sysinfo(2).
func NewMemoryProbe() *MemoryProbe {
	return &MemoryProbe{query: readSysinfo}
}

// NewMemoryProbeFunc creates a MemoryProbe backed by query, for alternate
// sources and tests.
func NewMemoryProbeFunc(query func() (Memory, error)) *MemoryProbe {
	return &MemoryProbe{query: query}
}

// Source implements Probe.
func (p *MemoryProbe) Source() ErrorSource { return ErrorSourceMemory }

// Collect implements Probe. A zero total is treated as missing data and
// leaves the memory record at its zero value.
func (p *MemoryProbe) Collect(_ context.Context, snap *Snapshot) error {
	m, err := p.query()
	if err != nil {
		return NewComponentError(ErrorSourceMemory, fmt.Errorf("sysinfo: %w", err))
	}
	if m.TotalBytes == 0 {
		return NewComponentError(ErrorSourceMemory, errMemoryUnavailable)
	}
	snap.Memory = m
	return nil
}
