package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lsim/logsim"
)

func init() {
	cmd := &cobra.Command{
		Use:   "check <circuit file>",
		Short: "Parse a circuit description and report all errors",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, _, diags, err := logsim.Load(args[0])
	if err != nil {
		return err
	}
	if len(diags) > 0 {
		for _, d := range diags {
			pterm.Error.Println(d)
		}
		return fmt.Errorf("%d error(s) detected in %s", len(diags), args[0])
	}
	pterm.Info.Println("no errors detected")
	return nil
}
