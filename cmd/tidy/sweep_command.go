package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidy/internal/ipc"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Organize files already sitting in the watch folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Sweep()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if resp.Failed > 0 {
					fmt.Fprintf(stdout, "Sweep finished with errors: %d moved, %d skipped, %d failed\n", resp.Moved, resp.Skipped, resp.Failed)
					return nil
				}
				fmt.Fprintf(stdout, "Sweep finished: %d moved, %d skipped\n", resp.Moved, resp.Skipped)
				return nil
			})
		},
	}
}
