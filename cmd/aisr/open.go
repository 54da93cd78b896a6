package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ai-session-repair/internal/config"
	"github.com/Zuo-Peng/ai-session-repair/internal/open"
	"github.com/Zuo-Peng/ai-session-repair/internal/scan"
)

func openCmd() *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "open <session-id-prefix|path>",
		Short: "Open the session JSONL file in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			path, err := scan.Resolve(cfg.ClaudeRoot, args[0])
			if err != nil {
				return err
			}

			return open.OpenFile(path, line)
		},
	}

	cmd.Flags().IntVar(&line, "line", 1, "Line number to jump to")

	return cmd
}
