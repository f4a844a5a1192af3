package monitor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLoadLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Load
		wantErr bool
	}{
		{
			name: "reference line",
			line: "0.50 0.30 0.10 2/150 4321",
			want: Load{Avg1: 0.50, Avg5: 0.30, Avg15: 0.10, Runnable: 2, Total: 150, LatestPID: 4321},
		},
		{
			name: "trailing newline",
			line: "1.25 0.98 0.40 1/312 28731\n",
			want: Load{Avg1: 1.25, Avg5: 0.98, Avg15: 0.40, Runnable: 1, Total: 312, LatestPID: 28731},
		},
		{name: "missing pid", line: "0.50 0.30 0.10 2/150", wantErr: true},
		{name: "missing slash", line: "0.50 0.30 0.10 2 150 4321", wantErr: true},
		{name: "garbage", line: "load is high", wantErr: true},
		{name: "empty", line: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLoadLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, Load{}, got)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Avg1, got.Avg1, 1e-9)
			assert.InDelta(t, tt.want.Avg5, got.Avg5, 1e-9)
			assert.InDelta(t, tt.want.Avg15, got.Avg15, 1e-9)
			assert.Equal(t, tt.want.Runnable, got.Runnable)
			assert.Equal(t, tt.want.Total, got.Total)
			assert.Equal(t, tt.want.LatestPID, got.LatestPID)
		})
	}
}

func TestLoadProbeCollect(t *testing.T) {
	path := writeFixture(t, "loadavg", "0.50 0.30 0.10 2/150 4321\n")

	var snap Snapshot
	require.NoError(t, NewLoadProbe(path).Collect(context.Background(), &snap))

	assert.Equal(t, uint32(2), snap.Load.Runnable)
	assert.Equal(t, uint32(150), snap.Load.Total)
	assert.Equal(t, uint32(4321), snap.Load.LatestPID)
}

func TestLoadProbeMissingFile(t *testing.T) {
	var snap Snapshot
	err := NewLoadProbe(filepath.Join(t.TempDir(), "loadavg")).Collect(context.Background(), &snap)

	assert.Error(t, err)
	assert.Equal(t, Load{}, snap.Load)
}

func TestLoadProbeEmptyFile(t *testing.T) {
	var snap Snapshot
	err := NewLoadProbe(writeFixture(t, "loadavg", "")).Collect(context.Background(), &snap)

	assert.Error(t, err)
	assert.Equal(t, Load{}, snap.Load)
}
