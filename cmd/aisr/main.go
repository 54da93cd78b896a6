package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "aisr",
		Short:   "AI Session Repair - insert rewind checkpoints into Claude Code session logs",
		Version: version,
	}

	rootCmd.AddCommand(repairCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
