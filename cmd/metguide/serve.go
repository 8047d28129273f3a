package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/metguide/metguide/pkg/cache"
	"github.com/metguide/metguide/pkg/config"
	"github.com/metguide/metguide/pkg/guide"
	"github.com/metguide/metguide/pkg/met"
	"github.com/metguide/metguide/pkg/openai"
	"github.com/metguide/metguide/pkg/ratelimit"
	"github.com/metguide/metguide/pkg/server"
	"github.com/metguide/metguide/pkg/tours"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Met Guide API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := newLogger(cfg.Log)

			store, err := cache.New(cfg.Cache, logger)
			if err != nil {
				return fmt.Errorf("init cache: %w", err)
			}
			defer func() { _ = store.Close() }()

			var rdb *redis.Client
			if cfg.Cache.RedisURL != "" {
				opts, err := redis.ParseURL(cfg.Cache.RedisURL)
				if err != nil {
					return fmt.Errorf("parse redis url: %w", err)
				}
				rdb = redis.NewClient(opts)
				defer func() { _ = rdb.Close() }()
			}

			limiter := ratelimit.New(cfg.RateLimit, rdb, logger)
			defer limiter.Close()

			metClient := met.NewClient(met.WithBaseURL(cfg.MetBaseURL))
			llm := openai.NewClient(cfg.OpenAIAPIKey)

			generator := guide.NewGenerator(store, metClient, llm, logger)
			synthesizer := guide.NewSynthesizer(store, llm, logger)
			prefetcher := guide.NewPrefetcher(generator, synthesizer, rate.NewLimiter(rate.Every(time.Second), 1), logger)
			identifier := guide.NewIdentifier(llm, metClient, logger)
			tourService := tours.NewService(cfg.ToursPath, cfg.Env == "development", logger)

			srv := server.New(server.Deps{
				Config:     cfg,
				Logger:     logger,
				Met:        metClient,
				Narration:  generator,
				Speech:     synthesizer,
				Identifier: identifier,
				Prefetcher: prefetcher,
				Tours:      tourService,
				Limiter:    limiter,
				Cache:      store,
				RandomID:   met.RandomHighlightID,
			})

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !cfg.OpenAIConfigured() {
				logger.Warn("OPENAI_API_KEY not set; narration, speech, and identify are disabled")
			}

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func newLogger(cfg config.LogConfig) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
	})
}
