package monitor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// DefaultLoadAvgPath is the kernel load average file.
const DefaultLoadAvgPath = "/proc/loadavg"

// LoadProbe fills Snapshot.Load from /proc/loadavg.
type LoadProbe struct {
	procLoadavgPath string
}

// NewLoadProbe creates a LoadProbe reading from path.
func NewLoadProbe(path string) *LoadProbe {
	return &LoadProbe{procLoadavgPath: path}
}

// Source implements Probe.
func (p *LoadProbe) Source() ErrorSource { return ErrorSourceLoad }

// Collect implements Probe.
func (p *LoadProbe) Collect(_ context.Context, snap *Snapshot) error {
	l, err := ReadLoad(p.procLoadavgPath)
	if err != nil {
		return NewComponentError(ErrorSourceLoad, err)
	}
	snap.Load = l
	return nil
}

// ReadLoad reads the first line of a loadavg file.
func ReadLoad(path string) (Load, error) {
	file, err := os.Open(path)
	if err != nil {
		return Load{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Load{}, fmt.Errorf("scanning %s: %w", path, err)
		}
		return Load{}, fmt.Errorf("%s is empty", path)
	}
	return ParseLoadLine(scanner.Text())
}

// ParseLoadLine parses "<avg1> <avg5> <avg15> <runnable>/<total> <pid>".
// Any field failing to parse yields a zero Load.
func ParseLoadLine(line string) (Load, error) {
	var l Load
	n, err := fmt.Sscanf(strings.TrimSpace(line), "%f %f %f %d/%d %d",
		&l.Avg1, &l.Avg5, &l.Avg15, &l.Runnable, &l.Total, &l.LatestPID)
	if err != nil {
		return Load{}, fmt.Errorf("parsing loadavg (matched %d of 6 fields): %w", n, err)
	}
	return l, nil
}
