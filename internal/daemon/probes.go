package daemon

import (
	"github.com/opd-ai/oledstat/internal/config"
	"github.com/opd-ai/oledstat/internal/monitor"
)

// ProbesFromConfig builds the standard probe set. Every probe is bounded
// by cfg.ProbeTimeout.
func ProbesFromConfig(cfg *config.Config) Probes {
	bound := func(p monitor.Probe) monitor.Probe {
		return monitor.Bounded(p, cfg.ProbeTimeout)
	}
	return Probes{
		Address: bound(monitor.NewAddressProbe(cfg.Interface)),
		Sampled: []monitor.Probe{
			bound(monitor.NewCPUThermalProbe(cfg.Thermal.CPU)),
			bound(monitor.NewDDRThermalProbe(cfg.Thermal.DDR)),
			bound(monitor.NewCPUTimeProbe(cfg.Proc.Stat)),
			bound(monitor.NewMemoryProbe()),
			bound(monitor.NewLoadProbe(cfg.Proc.LoadAvg)),
		},
	}
}

// SettingsFromConfig returns the hot-reloadable part of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Probes:  ProbesFromConfig(cfg),
		Cadence: cfg.Cadence,
	}
}
