package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ai-session-repair/internal/config"
	"github.com/Zuo-Peng/ai-session-repair/internal/render"
	"github.com/Zuo-Peng/ai-session-repair/internal/scan"
)

func planCmd() *cobra.Command {
	var interval int

	cmd := &cobra.Command{
		Use:   "plan <session-id-prefix|path>",
		Short: "Show where checkpoints would be inserted, without writing",
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

			if interval <= 0 {
				interval = cfg.Interval
			}
			out, err := render.RenderPlan(path, render.Options{
				Interval: interval,
				MaxGapMs: cfg.MaxGapMs,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&interval, "interval", 0, "Assistant turns between checkpoints")

	return cmd
}
