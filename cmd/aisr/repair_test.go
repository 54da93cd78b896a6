package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestIntervalFlagDefersToConfig(t *testing.T) {
	// default 0 so the config interval applies unless the flag is set
	for _, c := range []*cobra.Command{repairCmd(), planCmd()} {
		f := c.Flags().Lookup("interval")
		require.NotNil(t, f)
		require.Equal(t, "0", f.DefValue, c.Name())
	}
}
