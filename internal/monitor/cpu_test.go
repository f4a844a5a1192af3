package monitor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCPUTimeLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    CPUTime
		wantErr bool
	}{
		{
			name: "ten counters",
			line: "cpu 100 5 50 800 10 2 1 0 0 0",
			want: CPUTime{User: 100, Nice: 5, System: 50, Idle: 800, IOWait: 10, IRQ: 2, SoftIRQ: 1},
		},
		{
			name: "kernel double space after label",
			line: "cpu  4705 356 584 3699176 23060 0 277 0 12 3",
			want: CPUTime{User: 4705, Nice: 356, System: 584, Idle: 3699176, IOWait: 23060, SoftIRQ: 277, Guest: 12, GuestNice: 3},
		},
		{
			name: "older kernel without guest counters",
			line: "cpu 1 2 3 4 5 6 7 8",
			want: CPUTime{User: 1, Nice: 2, System: 3, Idle: 4, IOWait: 5, IRQ: 6, SoftIRQ: 7, Steal: 8},
		},
		{
			name:    "per-core line",
			line:    "cpu0 1 2 3 4 5 6 7 8 9 10",
			wantErr: true,
		},
		{
			name:    "insufficient fields",
			line:    "cpu 100 5 50",
			wantErr: true,
		},
		{
			name:    "invalid number",
			line:    "cpu 100 abc 50 800 10 2 1 0 0 0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCPUTimeLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCPUTimeProbeSkipsToAggregateLine(t *testing.T) {
	path := writeFixture(t, "stat", "intr 12345\ncpu 100 5 50 800 10 2 1 0 0 0\ncpu0 50 2 25 400 5 1 0 0 0 0\n")

	var snap Snapshot
	require.NoError(t, NewCPUTimeProbe(path).Collect(context.Background(), &snap))

	assert.Equal(t, uint64(100), snap.CPUTime.User)
	assert.Equal(t, uint64(50), snap.CPUTime.System)
	assert.Equal(t, uint64(2), snap.CPUTime.IRQ)
	assert.Equal(t, uint64(1), snap.CPUTime.SoftIRQ)
}

func TestCPUTimeProbeFailureLeavesZero(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "stat") }},
		{"no cpu line", func(t *testing.T) string { return writeFixture(t, "stat", "intr 1 2 3\n") }},
		{"malformed cpu line", func(t *testing.T) string { return writeFixture(t, "stat", "cpu x y z\n") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var snap Snapshot
			err := NewCPUTimeProbe(tt.path(t)).Collect(context.Background(), &snap)
			assert.Error(t, err)
			assert.Equal(t, CPUTime{}, snap.CPUTime)
		})
	}
}
