package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ai-session-repair/internal/config"
	"github.com/Zuo-Peng/ai-session-repair/internal/repair"
	"github.com/Zuo-Peng/ai-session-repair/internal/scan"
)

func repairCmd() *cobra.Command {
	var dryRun bool
	var interval int
	var verify bool
	var marker string

	cmd := &cobra.Command{
		Use:   "repair <session-id-prefix|path>",
		Short: "Insert rewind checkpoints into a session file",
		Long: `Repairs a Claude Code session file so it can be rewound to earlier
points. A backup copy of the original is written next to the file on the
first run; repeated runs restore from it first, so repair is idempotent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			path, err := scan.Resolve(cfg.ClaudeRoot, args[0])
			if err != nil {
				return err
			}

			if interval <= 0 {
				interval = cfg.Interval
			}
			markerChar := cfg.Marker
			if marker != "" {
				markerChar = marker
			}

			res := repair.Run(path, repair.Options{
				DryRun:   dryRun,
				Interval: interval,
				Marker:   repair.MarkerContent(markerChar),
				MaxGap:   time.Duration(cfg.MaxGapMs) * time.Millisecond,
				Verify:   verify,
			})
			printResult(path, res, dryRun)

			if !res.Ok() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report break points without modifying the file")
	cmd.Flags().IntVar(&interval, "interval", 0, "Assistant turns between checkpoints (default from config)")
	cmd.Flags().BoolVar(&verify, "verify", true, "Validate referential integrity before writing")
	cmd.Flags().StringVar(&marker, "marker", "", "Checkpoint marker character")

	return cmd
}

func printResult(path string, res *repair.Result, dryRun bool) {
	fmt.Printf("session: %s\n", path)
	fmt.Printf("chain:   %d entries", res.ChainLength)
	if res.DeadExcluded > 0 {
		fmt.Printf(" (death zone from %d, %d excluded)", res.DeathIndex, res.DeadExcluded)
	}
	fmt.Println()

	if dryRun {
		fmt.Printf("dry run: %d break point(s) at chain positions %v\n", len(res.Candidates), res.Candidates)
	} else if res.Insertions > 0 {
		fmt.Printf("inserted %d checkpoint(s)\n", res.Insertions)
	}
	if res.Restored {
		fmt.Println("restored pristine original from backup before repairing")
	}
	if res.BackupPath != "" {
		fmt.Printf("backup:  %s\n", res.BackupPath)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", w)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", e)
	}
}
