package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metguide/metguide/pkg/cache"
	"github.com/metguide/metguide/pkg/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local narration/audio cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Cache.SQLitePath == "" {
				return fmt.Errorf("no local cache database configured")
			}
			c, err := cache.NewSQLite(cfg.Cache.SQLitePath)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			entries, hits, misses, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Entries: %d\nHits:    %d\nMisses:  %d\n", entries, hits, misses)
			return nil
		},
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Cache.SQLitePath == "" {
				return fmt.Errorf("no local cache database configured")
			}
			c, err := cache.NewSQLite(cfg.Cache.SQLitePath)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if err := c.Purge(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Expired cache entries purged.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.AddCommand(statsCmd, purgeCmd)
	return cmd
}
