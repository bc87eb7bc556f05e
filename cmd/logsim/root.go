package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "logsim",
	Short: "Simulate networks of digital logic devices",
	Long: `logsim parses a circuit description file and simulates the network it
describes cycle by cycle, printing the recorded traces of the monitored
signals.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
