//go:build !linux

package monitor

import "errors"

func readSysinfo() (Memory, error) {
	return Memory{}, errors.New("sysinfo is only available on linux")
}
