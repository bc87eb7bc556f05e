package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lsim/logsim"
)

var runFlags = struct {
	cycles *int
	sets   *[]string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "run <circuit file>",
		Short:   "Simulate a circuit and print the monitored traces",
		Example: `  logsim run --set SW1=1 -n 40 circuit.def`,
		Args:    cobra.ExactArgs(1),
		RunE:    runRun,
	}
	runFlags.cycles = cmd.Flags().IntP("cycles", "n", 20, "number of cycles to simulate")
	runFlags.sets = cmd.Flags().StringArray("set", nil, "set a switch before the run, e.g. SW1=1")
	rootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	net, mon, diags, err := logsim.Load(args[0])
	if err != nil {
		return err
	}
	if len(diags) > 0 {
		for _, d := range diags {
			pterm.Error.Println(d)
		}
		return fmt.Errorf("%d error(s) detected in %s", len(diags), args[0])
	}
	for _, s := range *runFlags.sets {
		name, on, err := parseSet(s)
		if err != nil {
			return err
		}
		if err := net.SetSwitch(name, on); err != nil {
			return err
		}
	}
	if err := net.Step(*runFlags.cycles); err != nil {
		return errors.Wrapf(err, "simulation stopped after %d cycle(s)", net.Cycle())
	}
	data := pterm.TableData{{"signal", "trace"}}
	traces := mon.Traces()
	for _, sig := range mon.List() {
		data = append(data, []string{sig, waveform(traces[sig])})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// parseSet splits a "NAME=0|1" switch assignment.
func parseSet(s string) (name string, on bool, err error) {
	i := strings.IndexByte(s, '=')
	if i < 0 {
		return "", false, errors.Errorf("invalid switch assignment %q, want NAME=0 or NAME=1", s)
	}
	switch s[i+1:] {
	case "0":
		return s[:i], false, nil
	case "1":
		return s[:i], true, nil
	}
	return "", false, errors.Errorf("invalid switch assignment %q, want NAME=0 or NAME=1", s)
}

// waveform renders a trace as a high/low strip, e.g. "_--_".
func waveform(tr []bool) string {
	var b strings.Builder
	for _, v := range tr {
		if v {
			b.WriteByte('-')
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
