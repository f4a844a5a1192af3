// Command oledstat shows system health on a small character display.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version is the current version of oledstat.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and maps the outcome to an exit code:
// 0 on success or signal shutdown, 1 on any error.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// app carries the flags and streams shared by every subcommand.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	ro := &runOptions{}

	root := &cobra.Command{
		Use:   "oledstat",
		Short: "Show system health on a small character display",
		Long: `oledstat samples the network address, thermal sensors, CPU time
accounting, memory usage and load average once per cadence and draws them
as eight fixed text rows on a character display.

Without a subcommand it runs the display loop, like "oledstat run".

Examples:
  oledstat
  oledstat run -c /etc/oledstat.yaml --watch
  oledstat snapshot
  oledstat config -c oledstat.lua`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDaemon(cmd.Context(), ro)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "configuration file (.yaml, .json, .toml or .lua)")
	ro.bind(root)

	root.AddCommand(
		newRunCmd(a),
		newSnapshotCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "oledstat version %s\n", Version)
		},
	}
}
