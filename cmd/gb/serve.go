package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/guestbook/internal/config"
	"github.com/zulandar/guestbook/internal/db"
	"github.com/zulandar/guestbook/internal/guestbook"
	"github.com/zulandar/guestbook/internal/notify"
	"github.com/zulandar/guestbook/internal/notify/discord"
	"github.com/zulandar/guestbook/internal/notify/slack"
	"github.com/zulandar/guestbook/internal/printer"
	"github.com/zulandar/guestbook/internal/ratelimit"
	"github.com/zulandar/guestbook/internal/server"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the public submission API",
		Long:  "Launches the HTTP server that accepts guestbook submissions, prints them, and serves the gallery.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, listen)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "guestbook.yaml", "path to guestbook config file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath, listen string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	if listen == "" {
		listen = cfg.Server.Listen
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	store := guestbook.NewStore(gormDB)
	limiter := ratelimit.NewFixedWindow(cfg.Limits.PerHour, time.Hour)
	client := printer.NewHTTPClient(cfg.Printer.URL, time.Duration(cfg.Printer.TimeoutSeconds)*time.Second)

	notifier, err := buildNotifier(cfg.Notify, log)
	if err != nil {
		return err
	}

	opts := guestbook.ServiceOpts{
		Store:        store,
		Limiter:      limiter,
		Printer:      client,
		DailyCeiling: cfg.Limits.DailyCeiling,
		MaxLength:    cfg.Limits.MaxLength,
		Log:          log,
	}
	if notifier != nil {
		opts.Notifier = notifier
		defer notifier.Close()
	}
	service := guestbook.NewService(opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if notifier != nil && cfg.Notify.DigestCron != "" {
		go func() {
			if err := notifier.RunDigest(ctx, store, cfg.Notify.DigestCron); err != nil {
				log.Warn("digest disabled", zap.Error(err))
			}
		}()
	}

	return server.Start(ctx, server.StartOpts{
		Service: service,
		Store:   store,
		Listen:  listen,
		Log:     log,
		Out:     cmd.OutOrStdout(),
	})
}

// buildNotifier constructs the configured notification adapter, or nil when
// notifications are disabled.
func buildNotifier(cfg config.NotifyConfig, log *zap.Logger) (*notify.Notifier, error) {
	switch cfg.Platform {
	case "":
		return nil, nil
	case "slack":
		adapter, err := slack.New(slack.AdapterOpts{
			BotToken:  cfg.SlackToken,
			ChannelID: cfg.Channel,
		})
		if err != nil {
			return nil, err
		}
		return notify.New(adapter, log), nil
	case "discord":
		adapter, err := discord.New(discord.AdapterOpts{
			BotToken:  cfg.DiscordToken,
			ChannelID: cfg.Channel,
		})
		if err != nil {
			return nil, err
		}
		return notify.New(adapter, log), nil
	default:
		return nil, fmt.Errorf("unknown notify platform %q", cfg.Platform)
	}
}
