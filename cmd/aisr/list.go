package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/ai-session-repair/internal/config"
	"github.com/Zuo-Peng/ai-session-repair/internal/index"
	"github.com/Zuo-Peng/ai-session-repair/internal/query"
	"github.com/Zuo-Peng/ai-session-repair/internal/tui"
)

func listCmd() *cobra.Command {
	var recent int
	var since, filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse sessions sorted by update time",
		Long: `Shows indexed sessions sorted by update time (newest first). Opens an
interactive browser with a repair-plan preview when stdout is a terminal;
prints TSV otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			index.IndexAll(db, cfg.ClaudeRoot)

			opts := query.Options{
				Filter: filter,
				Since:  since,
				Limit:  recent,
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, tui.Options{
					Query:    opts,
					Interval: cfg.Interval,
					MaxGapMs: cfg.MaxGapMs,
					Marker:   cfg.Marker,
				})
			}

			results, err := query.List(db, opts)
			if err != nil {
				return err
			}
			for _, r := range results {
				backup := "-"
				if r.HasBackup {
					backup = "backup"
				}
				fmt.Printf("%s\t%s\t%s\t%d\t%s\t%s\n",
					r.SessionID, r.UpdatedAt, backup, r.MessageCount, r.RepoCwd, r.Summary)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "Show only the N most recently updated sessions")
	cmd.Flags().StringVar(&since, "since", "", "Filter sessions updated since date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter, "filter", "", "Substring filter on summary, repo, or session id")

	return cmd
}
