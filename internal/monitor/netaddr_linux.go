//go:build linux

package monitor

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// lookupIPv4 asks the kernel for the interface address with SIOCGIFADDR.
func lookupIPv4(iface string) (string, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return "", fmt.Errorf("opening socket: %w", err)
	}
	defer unix.Close(fd)

	ifr, err := unix.NewIfreq(iface)
	if err != nil {
		return "", err
	}
	if err := unix.IoctlIfreq(fd, unix.SIOCGIFADDR, ifr); err != nil {
		return "", fmt.Errorf("SIOCGIFADDR: %w", err)
	}
	ip, err := ifr.Inet4Addr()
	if err != nil {
		return "", err
	}
	return net.IP(ip).String(), nil
}
