// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"audiobook-admin/internal/app"
	"audiobook-admin/internal/backend"
	"audiobook-admin/internal/catalog"
	"audiobook-admin/internal/models"
	"audiobook-admin/internal/store"
)

// sagaListLimit caps the rows printed by "sagas list".
const sagaListLimit = 100

func newSagasCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sagas",
		Short: "Inspect and resume interrupted audiobook creations",
	}
	cmd.AddCommand(newSagasListCommand(ctx))
	cmd.AddCommand(newSagasResumeCommand(ctx))
	return cmd
}

func newSagasListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List audiobooks with unsaved chapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			injector := app.NewContainer(cfg)
			defer injector.Shutdown()

			sagas, err := do.MustInvoke[*store.SagaStore](injector).ListPartial(background(cmd), sagaListLimit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sagas) == 0 {
				fmt.Fprintln(out, "No interrupted creations.")
				return nil
			}
			fmt.Fprintln(out, renderSagas(sagas))
			return nil
		},
	}
}

func newSagasResumeCommand(ctx *commandContext) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "resume <id>",
		Short: "Save the remaining chapters of an interrupted creation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid saga id %q: %w", args[0], err)
			}
			if token == "" {
				token = os.Getenv("BACKEND_TOKEN")
			}
			if token == "" {
				return errors.New("a backend token is required (--token or BACKEND_TOKEN)")
			}

			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			injector := app.NewContainer(cfg)
			defer injector.Shutdown()

			creator := catalog.NewCreator(
				do.MustInvoke[*backend.Client](injector),
				do.MustInvoke[*store.SagaStore](injector),
			)
			saga, err := creator.Resume(backend.WithToken(background(cmd), token), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "All %d chapters of %q are saved.\n", saga.TotalChapters, saga.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token for the backend (defaults to BACKEND_TOKEN)")
	return cmd
}

func renderSagas(sagas []models.CreationSaga) string {
	rows := make([][]string, 0, len(sagas))
	for _, s := range sagas {
		rows = append(rows, []string{
			s.ID.String(),
			s.Title,
			fmt.Sprintf("%d/%d", s.Persisted, s.TotalChapters),
			humanize.Time(s.UpdatedAt),
			s.LastError,
		})
	}
	return renderTable(
		[]string{"ID", "Title", "Chapters", "Updated", "Last error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}
