package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"leadradar/internal/leads"
	"leadradar/internal/preflight"
	"leadradar/internal/store"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var skipLLM bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, database and LLM connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(_ *leads.Service, st *store.Store) error {
				results := preflight.RunAll(cmd.Context(), cfg, st, skipLLM)
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Preflight", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, result := range results {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
				if !preflight.AllPassed(results) {
					return errors.New("one or more checks failed")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "Skip the LLM connectivity check")
	return cmd
}
