package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/guestbook/internal/bridge"
	"github.com/zulandar/guestbook/internal/config"
	"go.uber.org/zap"
)

func newBridgeCmd() *cobra.Command {
	var (
		configPath string
		device     string
	)

	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Start the printer bridge",
		Long:  "Launches the local HTTP server that writes print requests to the receipt printer's device path.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBridge(cmd, configPath, device)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "guestbook.yaml", "path to guestbook config file")
	cmd.Flags().StringVarP(&device, "device", "d", "", "printer device path (overrides config)")
	return cmd
}

func runBridge(cmd *cobra.Command, configPath, device string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if device == "" {
		device = cfg.Bridge.Device
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	return bridge.Start(ctx, bridge.StartOpts{
		Device: bridge.NewFileDevice(device),
		Listen: cfg.Bridge.Listen,
		Log:    log,
		Out:    cmd.OutOrStdout(),
	})
}
