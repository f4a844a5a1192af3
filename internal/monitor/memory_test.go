package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsageRatio(t *testing.T) {
	tests := []struct {
		name   string
		mem    Memory
		want   float64
		wantOK bool
	}{
		{name: "half used", mem: Memory{TotalBytes: 1000, FreeBytes: 500}, want: 0.5, wantOK: true},
		{name: "all free", mem: Memory{TotalBytes: 1000, FreeBytes: 1000}, want: 0, wantOK: true},
		{name: "free exceeds total", mem: Memory{TotalBytes: 1000, FreeBytes: 2000}, want: 0, wantOK: true},
		{name: "zero total", mem: Memory{FreeBytes: 10}, want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.mem.UsageRatio()
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestMemoryProbeCollect(t *testing.T) {
	probe := NewMemoryProbeFunc(func() (Memory, error) {
		return Memory{TotalBytes: 512 << 20, FreeBytes: 128 << 20}, nil
	})

	var snap Snapshot
	require.NoError(t, probe.Collect(context.Background(), &snap))

	ratio, ok := snap.Memory.UsageRatio()
	require.True(t, ok)
	assert.InDelta(t, 0.75, ratio, 1e-12)
}

func TestMemoryProbeZeroTotalIsUnavailable(t *testing.T) {
	probe := NewMemoryProbeFunc(func() (Memory, error) {
		return Memory{TotalBytes: 0, FreeBytes: 4096}, nil
	})

	var snap Snapshot
	err := probe.Collect(context.Background(), &snap)

	require.ErrorIs(t, err, errMemoryUnavailable)
	assert.Equal(t, Memory{}, snap.Memory)
}

func TestMemoryProbeQueryError(t *testing.T) {
	boom := errors.New("ENOSYS")
	probe := NewMemoryProbeFunc(func() (Memory, error) { return Memory{}, boom })

	var snap Snapshot
	err := probe.Collect(context.Background(), &snap)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, Memory{}, snap.Memory)
}
