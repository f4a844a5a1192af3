package monitor

import (
	"context"
	"errors"
	"fmt"
)

// DefaultInterface is the network interface watched on the reference board.
const DefaultInterface = "wlan0"

// errNoAddress is returned when the interface exists but carries no IPv4 address.
var errNoAddress = errors.New("no IPv4 address assigned")

// AddressProbe fills Snapshot.NetworkAddress with the interface's IPv4 address.
type AddressProbe struct {
	iface  string
	lookup func(iface string) (string, error)
}

// NewAddressProbe creates an AddressProbe for the named interface.
func NewAddressProbe(iface string) *AddressProbe {
	return &AddressProbe{iface: iface, lookup: lookupIPv4}
}

// NewAddressProbeFunc creates an AddressProbe using lookup instead of the
// kernel interface query.
func NewAddressProbeFunc(iface string, lookup func(iface string) (string, error)) *AddressProbe {
	return &AddressProbe{iface: iface, lookup: lookup}
}

// Source implements Probe.
func (p *AddressProbe) Source() ErrorSource { return ErrorSourceAddress }

// Interface returns the interface name being queried.
func (p *AddressProbe) Interface() string { return p.iface }

// Collect implements Probe.
func (p *AddressProbe) Collect(_ context.Context, snap *Snapshot) error {
	addr, err := p.lookup(p.iface)
	if err != nil {
		return NewComponentError(ErrorSourceAddress, fmt.Errorf("interface %s: %w", p.iface, err))
	}
	if addr == "" {
		return NewComponentError(ErrorSourceAddress, fmt.Errorf("interface %s: %w", p.iface, errNoAddress))
	}
	if len(addr) > MaxAddressLength {
		addr = addr[:MaxAddressLength]
	}
	snap.NetworkAddress = addr
	return nil
}
