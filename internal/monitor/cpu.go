package monitor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultProcStatPath is the kernel scheduler statistics file.
const DefaultProcStatPath = "/proc/stat"

// cpuTimeFields is the number of counters on a modern aggregate cpu line.
const cpuTimeFields = 10

// minCPUTimeFields is the fewest counters accepted; kernels before 2.6.33
// omit the trailing guest counters.
const minCPUTimeFields = 7

// CPUTimeProbe fills Snapshot.CPUTime from the aggregate "cpu" line.
type CPUTimeProbe struct {
	procStatPath string
}

// NewCPUTimeProbe creates a CPUTimeProbe reading from path.
func NewCPUTimeProbe(path string) *CPUTimeProbe {
	return &CPUTimeProbe{procStatPath: path}
}

// Source implements Probe.
func (p *CPUTimeProbe) Source() ErrorSource { return ErrorSourceCPUTime }

// Collect implements Probe.
func (p *CPUTimeProbe) Collect(_ context.Context, snap *Snapshot) error {
	t, err := ReadCPUTime(p.procStatPath)
	if err != nil {
		return NewComponentError(ErrorSourceCPUTime, err)
	}
	snap.CPUTime = t
	return nil
}

// ReadCPUTime reads and parses the aggregate cpu line of a /proc/stat file.
func ReadCPUTime(path string) (CPUTime, error) {
	file, err := os.Open(path)
	if err != nil {
		return CPUTime{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "cpu" {
			continue
		}
		t, err := parseCPUTimeFields(fields[1:])
		if err != nil {
			return CPUTime{}, fmt.Errorf("parsing cpu line: %w", err)
		}
		return t, nil
	}

	if err := scanner.Err(); err != nil {
		return CPUTime{}, fmt.Errorf("scanning %s: %w", path, err)
	}
	return CPUTime{}, fmt.Errorf("no aggregate cpu line in %s", path)
}

// ParseCPUTimeLine parses a complete line such as
// "cpu 100 5 50 800 10 2 1 0 0 0".
func ParseCPUTimeLine(line string) (CPUTime, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "cpu" {
		return CPUTime{}, fmt.Errorf("not an aggregate cpu line")
	}
	return parseCPUTimeFields(fields[1:])
}

// parseCPUTimeFields parses the counters following the "cpu" label.
// Missing trailing counters are left at zero; extra counters are ignored.
func parseCPUTimeFields(fields []string) (CPUTime, error) {
	if len(fields) < minCPUTimeFields {
		return CPUTime{}, fmt.Errorf("insufficient fields: got %d, need at least %d", len(fields), minCPUTimeFields)
	}

	var values [cpuTimeFields]uint64
	for i := 0; i < cpuTimeFields && i < len(fields); i++ {
		v, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return CPUTime{}, fmt.Errorf("parsing field %d: %w", i, err)
		}
		values[i] = v
	}

	return CPUTime{
		User:      values[0],
		Nice:      values[1],
		System:    values[2],
		Idle:      values[3],
		IOWait:    values[4],
		IRQ:       values[5],
		SoftIRQ:   values[6],
		Steal:     values[7],
		Guest:     values[8],
		GuestNice: values[9],
	}, nil
}
