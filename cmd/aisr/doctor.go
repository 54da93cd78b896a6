package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ai-session-repair/internal/config"
	"github.com/Zuo-Peng/ai-session-repair/internal/index"
	"github.com/Zuo-Peng/ai-session-repair/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify root, cache, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Root ===")
			checkDir("Claude", cfg.ClaudeRoot)

			fmt.Println("\n=== File Scan ===")
			files, err := scan.ScanRoot(cfg.ClaudeRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				backups := 0
				for _, f := range files {
					if f.HasBackup {
						backups++
					}
				}
				fmt.Printf("  Session files:  %d\n", len(files))
				fmt.Printf("  With backups:   %d\n", backups)
			}

			fmt.Println("\n=== Cache ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'aisr index' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			sessionCount, err := db.SessionCount()
			if err != nil {
				return fmt.Errorf("count sessions: %w", err)
			}
			backupCount, err := db.BackupCount()
			if err != nil {
				return fmt.Errorf("count backups: %w", err)
			}

			fmt.Printf("  Sessions: %d\n", sessionCount)
			fmt.Printf("  Repaired: %d\n", backupCount)

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== Cache Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
