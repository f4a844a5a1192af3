//go:build linux

package monitor

import "golang.org/x/sys/unix"

// readSysinfo returns the physical memory totals scaled by mem_unit.
func readSysinfo() (Memory, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return Memory{}, err
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return Memory{
		TotalBytes: uint64(info.Totalram) * unit,
		FreeBytes:  uint64(info.Freeram) * unit,
	}, nil
}
