package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"leadradar/internal/leads"
	"leadradar/internal/store"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search signals by name, company, location, trigger or excerpt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				results, err := svc.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				if err := printSignals(cmd, results, jsonOutput); err != nil {
					return err
				}
				if !jsonOutput {
					fmt.Fprintf(cmd.OutOrStdout(), "%d result(s) for %q\n", len(results), strings.TrimSpace(query))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
