package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidy/internal/ipc"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the move journal",
	}

	journalCmd.AddCommand(newJournalListCommand(ctx))
	journalCmd.AddCommand(newJournalClearCommand(ctx))
	return journalCmd
}

func newJournalListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var outcomes []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent move journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.JournalList(limit, outcomes)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Entries) == 0 {
					fmt.Fprintln(stdout, "Journal is empty")
					return nil
				}

				fmt.Fprintln(stdout, renderJournalTable(resp.Entries))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().StringSliceVar(&outcomes, "outcome", nil, "Filter by outcome (moved, skipped, failed)")
	return cmd
}

func newJournalClearCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var outcomes []string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(outcomes) == 0 {
				return fmt.Errorf("specify --outcome to clear selectively or --all to clear everything")
			}
			if all {
				outcomes = nil
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.JournalClear(outcomes)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d journal entries\n", resp.Removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Clear every journal entry")
	cmd.Flags().StringSliceVar(&outcomes, "outcome", nil, "Outcomes to clear (moved, skipped, failed)")
	return cmd
}
