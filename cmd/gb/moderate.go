package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/zulandar/guestbook/internal/guestbook"
	"golang.org/x/term"
)

func newModerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moderate",
		Short: "Moderation commands",
		Long:  "Lists pending guestbook messages and approves them for the public gallery.",
	}

	cmd.AddCommand(newModerateListCmd())
	cmd.AddCommand(newModerateShowCmd())
	cmd.AddCommand(newModerateApproveCmd())
	return cmd
}

func newModerateListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages pending moderation",
		Long:  "Lists unapproved messages, oldest first, with the first line of each message.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}

			msgs, err := guestbook.NewStore(gormDB).ListPending()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(msgs) == 0 {
				fmt.Fprintln(out, "No pending messages.")
				return nil
			}

			width := previewWidth()
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"ID", "Date", "First line"})
			table.SetAutoWrapText(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetBorder(false)
			for _, m := range msgs {
				date := m.SubmittedAt
				if len(date) > 10 {
					date = date[:10]
				}
				table.Append([]string{
					strconv.FormatUint(uint64(m.ID), 10),
					date,
					firstLine(m.Text, width),
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "guestbook.yaml", "path to guestbook config file")
	return cmd
}

func newModerateShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a pending message in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMessageID(args[0])
			if err != nil {
				return err
			}

			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}

			msg, err := guestbook.NewStore(gormDB).Pending(id)
			if err != nil {
				if err == guestbook.ErrNotFound {
					return fmt.Errorf("no pending message with ID %d", id)
				}
				return err
			}

			printMessage(cmd, msg.ID, msg.SubmittedAt, msg.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "guestbook.yaml", "path to guestbook config file")
	return cmd
}

func newModerateApproveCmd() *cobra.Command {
	var (
		configPath string
		commentary string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending message for the gallery",
		Long: `Approves a pending message so it appears in the public gallery.

Shows the full message and asks for confirmation unless --yes is given.
Approval is one-shot: an already-approved or unknown ID is reported as
not found, and commentary can only be set at approval time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMessageID(args[0])
			if err != nil {
				return err
			}

			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			store := guestbook.NewStore(gormDB)

			msg, err := store.Pending(id)
			if err != nil {
				if err == guestbook.ErrNotFound {
					return fmt.Errorf("no pending message with ID %d", id)
				}
				return err
			}

			out := cmd.OutOrStdout()
			printMessage(cmd, msg.ID, msg.SubmittedAt, msg.Text)

			if !yes && !confirmApprove(cmd, id) {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			if err := store.Approve(id, commentary); err != nil {
				if err == guestbook.ErrNotFound {
					return fmt.Errorf("no pending message with ID %d", id)
				}
				return err
			}

			fmt.Fprintf(out, "Message %d approved.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "guestbook.yaml", "path to guestbook config file")
	cmd.Flags().StringVarP(&commentary, "commentary", "m", "", "optional commentary shown alongside the message")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func printMessage(cmd *cobra.Command, id uint, submittedAt, text string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n--- Message %d (%s) ---\n", id, submittedAt)
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
	fmt.Fprintln(out, "---")
}

func confirmApprove(cmd *cobra.Command, id uint) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "Approve message %d? [y/N] ", id)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if scanner.Scan() {
		return strings.EqualFold(strings.TrimSpace(scanner.Text()), "y")
	}
	return false
}

func parseMessageID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid message ID: %w", err)
	}
	return uint(id), nil
}

// previewWidth sizes the first-line column to the terminal when stdout is
// one, falling back to the classic 60 columns.
func previewWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 40 {
		return w - 30
	}
	return 60
}

// firstLine truncates text to its first line, capped at width runes.
func firstLine(text string, width int) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	if len(runes) > width {
		return string(runes[:width]) + "..."
	}
	return text
}
