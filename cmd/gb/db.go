package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/guestbook/internal/db"
	"github.com/zulandar/guestbook/internal/guestbook"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBStatusCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the guestbook database",
		Long:  "Creates the guestbook store and migrates the message table, including the gallery and commentary columns.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "guestbook.yaml", "path to guestbook config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Opened %s store at %s\n", cfg.DB.Driver, cfg.DB.Source())

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	fmt.Fprintln(out, "\nGuestbook database initialized successfully.")
	return nil
}

func newDBStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show store counts",
		Long:  "Prints today's submission count, pending moderation count, and gallery size.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBStatus(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "guestbook.yaml", "path to guestbook config file")
	return cmd
}

func runDBStatus(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	store := guestbook.NewStore(gormDB)

	today, err := store.CountToday(time.Now())
	if err != nil {
		return err
	}
	pending, err := store.CountPending()
	if err != nil {
		return err
	}
	approved, err := store.CountApproved()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Submitted today: %d / %d\n", today, cfg.Limits.DailyCeiling)
	fmt.Fprintf(out, "Pending moderation: %d\n", pending)
	fmt.Fprintf(out, "In gallery: %d\n", approved)
	return nil
}
