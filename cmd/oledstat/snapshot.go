package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/opd-ai/oledstat/internal/config"
	"github.com/opd-ai/oledstat/internal/daemon"
	"github.com/opd-ai/oledstat/internal/layout"
	"github.com/opd-ai/oledstat/internal/monitor"
)

func newSnapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Sample every probe once and print the result",
		Long: `Run every probe once, print a readable report and then the eight
lines the display would show. Probe failures are listed but do not fail
the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSnapshot(cmd.Context())
		},
	}
}

func (a *app) runSnapshot(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	probes := daemon.ProbesFromConfig(cfg)
	var snap monitor.Snapshot
	all := append([]monitor.Probe{probes.Address}, probes.Sampled...)
	ue := monitor.AsUpdateError(monitor.CollectAll(ctx, &snap, all...))

	if err := writeReport(a.stdout, cfg, snap, ue); err != nil {
		return err
	}

	lines := layout.New(cfg.Display.LineLength).Apply(layout.Frame{PID: os.Getpid(), Snapshot: snap})
	fmt.Fprintln(a.stdout, "\nDisplay:")
	for _, l := range lines {
		fmt.Fprintf(a.stdout, "  %d  %s\n", l.Row, l.Text)
	}
	return nil
}

func writeReport(w io.Writer, cfg *config.Config, snap monitor.Snapshot, ue *monitor.UpdateError) error {
	failed := func(src monitor.ErrorSource) bool {
		return ue != nil && ue.HasSource(src)
	}
	value := func(src monitor.ErrorSource, s string) string {
		if failed(src) {
			return "unavailable"
		}
		return s
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Address (%s):\t%s\n", cfg.Interface,
		value(monitor.ErrorSourceAddress, snap.NetworkAddress))
	fmt.Fprintf(tw, "CPU temperature:\t%s\n",
		value(monitor.ErrorSourceThermalCPU, fmt.Sprintf("%.1f°C", snap.CPUTemperature)))
	fmt.Fprintf(tw, "DDR temperature:\t%s\n",
		value(monitor.ErrorSourceThermalDDR, fmt.Sprintf("%.1f°C", snap.SecondaryTemperature)))

	mem := "unavailable"
	if ratio, ok := snap.Memory.UsageRatio(); ok {
		used := snap.Memory.TotalBytes - snap.Memory.FreeBytes
		mem = fmt.Sprintf("%s used of %s (%.1f%%)",
			humanize.IBytes(used), humanize.IBytes(snap.Memory.TotalBytes), ratio*100)
	}
	fmt.Fprintf(tw, "Memory:\t%s\n", mem)

	l := snap.Load
	fmt.Fprintf(tw, "Load average:\t%s\n",
		value(monitor.ErrorSourceLoad, fmt.Sprintf("%.2f %.2f %.2f", l.Avg1, l.Avg5, l.Avg15)))
	fmt.Fprintf(tw, "Tasks:\t%s\n",
		value(monitor.ErrorSourceLoad, fmt.Sprintf("%d runnable of %d, last PID %d", l.Runnable, l.Total, l.LatestPID)))

	c := snap.CPUTime
	fmt.Fprintf(tw, "CPU ticks:\t%s\n", value(monitor.ErrorSourceCPUTime, fmt.Sprintf(
		"user %s  nice %s  system %s  idle %s  iowait %s  irq %s  softirq %s",
		comma(c.User), comma(c.Nice), comma(c.System), comma(c.Idle),
		comma(c.IOWait), comma(c.IRQ), comma(c.SoftIRQ))))

	if ue != nil {
		fmt.Fprintln(tw, "\nProbe errors:")
		for _, ce := range ue.Errors {
			fmt.Fprintf(tw, "  %s:\t%v\n", ce.Source, ce.Err)
		}
	}
	return tw.Flush()
}

func comma(v uint64) string {
	return humanize.Comma(int64(v))
}
