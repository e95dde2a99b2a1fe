package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tidy/internal/config"
	"tidy/internal/daemonrun"
)

func main() {
	cmd := newDaemonCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newDaemonCommand() *cobra.Command {
	var configFlag string
	var logLevel string
	var rootFlag string

	cmd := &cobra.Command{
		Use:           "tidyd",
		Short:         "Tidy file-organizing daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if rootFlag != "" {
				expanded, err := config.ExpandPath(rootFlag)
				if err != nil {
					return fmt.Errorf("resolve root: %w", err)
				}
				cfg.Paths.WatchDir = expanded
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{LogLevel: logLevel})
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	cmd.Flags().StringVar(&rootFlag, "root", "", "Watch directory override (defaults to watch_dir in config)")
	return cmd
}
