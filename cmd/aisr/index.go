package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ai-session-repair/internal/config"
	"github.com/Zuo-Peng/ai-session-repair/internal/index"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan and index Claude Code session logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Scanning %s...\n", cfg.ClaudeRoot)

			stats, err := index.IndexAll(db, cfg.ClaudeRoot)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}
