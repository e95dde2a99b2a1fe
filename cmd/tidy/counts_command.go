package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidy/internal/ipc"
)

func newCountsCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Show per-category item counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Counts(refresh)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderCountsTable(ctx.configValue(), resp.Counts))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Recount directories instead of using the cached totals")
	return cmd
}
