package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metguide/metguide/pkg/config"
	"github.com/metguide/metguide/pkg/met"
	"github.com/metguide/metguide/pkg/tours"
)

func newToursCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tours",
		Short: "Manage curated tours",
	}

	var output string
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the tours file from the collection API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cfg.Log)

			path := output
			if path == "" {
				path = cfg.ToursPath
			}

			metClient := met.NewClient(met.WithBaseURL(cfg.MetBaseURL))
			data, err := tours.NewGenerator(metClient, logger).Generate(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("generate tours: %w", err)
			}

			total := 0
			for _, t := range data.Tours {
				total += t.ObjectCount
			}
			fmt.Printf("Wrote %s: %d tours, %d objects\n", path, len(data.Tours), total)
			return nil
		},
	}
	generateCmd.Flags().StringVarP(&output, "output", "o", "", "output path (defaults to the configured tours path)")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.AddCommand(generateCmd)
	return cmd
}
