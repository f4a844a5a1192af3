// Package monitor samples board health signals for the OLED status panel.
// Each probe reads one kernel or sysfs source and fills part of a Snapshot;
// probes degrade to zero values on failure and never stop the caller.
package monitor

// MaxAddressLength is the longest dotted-quad IPv4 address the panel shows.
const MaxAddressLength = 15

// CPUTime holds the aggregate CPU time-accounting counters from /proc/stat.
// Values are cumulative clock ticks since boot, not deltas.
type CPUTime struct {
	User      uint64
	Nice      uint64
	System    uint64
	Idle      uint64
	IOWait    uint64
	IRQ       uint64
	SoftIRQ   uint64
	Steal     uint64
	Guest     uint64
	GuestNice uint64
}

// Memory holds physical memory totals in bytes.
type Memory struct {
	TotalBytes uint64
	FreeBytes  uint64
}

// UsageRatio returns (total - free) / total. The second result is false when
// the total is zero, in which case no division is performed.
func (m Memory) UsageRatio() (float64, bool) {
	if m.TotalBytes == 0 {
		return 0, false
	}
	used := safeSubtract(m.TotalBytes, m.FreeBytes)
	return float64(used) / float64(m.TotalBytes), true
}

// Load holds the contents of /proc/loadavg.
type Load struct {
	// Avg1, Avg5 and Avg15 are the 1, 5 and 15 minute load averages.
	Avg1  float64
	Avg5  float64
	Avg15 float64
	// Runnable is the number of currently runnable scheduling entities.
	Runnable uint32
	// Total is the number of scheduling entities that exist on the system.
	Total uint32
	// LatestPID is the PID most recently assigned by the kernel.
	LatestPID uint32
}

// Snapshot aggregates every probe's output for one loop iteration.
// The zero value is the "nothing known" state.
type Snapshot struct {
	// NetworkAddress is the IPv4 address of the monitored interface,
	// empty until it has been resolved.
	NetworkAddress string
	// CPUTemperature and SecondaryTemperature are in degrees Celsius,
	// zero when the sensor could not be read.
	CPUTemperature       float64
	SecondaryTemperature float64
	Memory               Memory
	CPUTime              CPUTime
	Load                 Load
}

// safeSubtract returns a - b, or 0 if b > a.
func safeSubtract(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
