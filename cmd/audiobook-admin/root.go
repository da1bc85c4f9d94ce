// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"audiobook-admin/internal/app"
	"audiobook-admin/internal/config"
)

// commandContext carries what every subcommand needs once the root has
// loaded the configuration.
type commandContext struct {
	envFile string
	cfg     *config.Config
}

// config returns the loaded configuration.
func (c *commandContext) config() (*config.Config, error) {
	if c.cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return c.cfg, nil
}

func (c *commandContext) load() error {
	if err := config.LoadDotEnv(c.envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	c.cfg = cfg
	slog.SetDefault(app.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel))
	return nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "audiobook-admin",
		Short:         "Admin panel for the audiobook store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd == cmd.Root() || cmd.Name() == "help" {
				return nil
			}
			return ctx.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.envFile, "env-file", ".env", "Path to a .env file to load before the environment")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newSagasCommand(ctx))

	return rootCmd
}
