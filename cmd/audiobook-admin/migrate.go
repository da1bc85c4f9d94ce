// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"path"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"audiobook-admin/internal/database"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the creation journal schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			c := background(cmd)
			db, err := database.Connect(c, cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()
			return database.Migrate(c, db)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they have been applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			c := background(cmd)
			db, err := database.Connect(c, cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			states, err := database.Status(c, db)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMigrations(states))
			return nil
		},
	})

	return cmd
}

func renderMigrations(states []database.MigrationStatus) string {
	rows := make([][]string, 0, len(states))
	for _, s := range states {
		applied := "pending"
		if s.Applied {
			applied = humanize.Time(s.AppliedAt)
		}
		rows = append(rows, []string{strconv.FormatInt(s.Version, 10), path.Base(s.Source), applied})
	}
	return renderTable([]string{"Version", "File", "Applied"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft})
}
