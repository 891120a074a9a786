package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"leadradar/internal/leads"
	"leadradar/internal/store"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		radars     []string
		keywords   []string
		noKeywords bool
		target     int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Collect, qualify and store new signals",
		Long: `Runs the radars, asks the LLM to filter, analyze and draft each capture,
and stores the accepted signals. Without --keyword each radar uses its
configured keywords; --no-keywords disables keyword filtering.

Interrupting the scan keeps every signal stored so far.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := leads.ScanRequest{Radars: radars, TargetCount: target}
			switch {
			case noKeywords:
				req.Keywords = []string{}
			case len(keywords) > 0:
				req.Keywords = keywords
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				result, err := svc.Scan(runCtx, req)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				if len(result.Signals) > 0 {
					fmt.Fprintln(out, renderSignalTable(result.Signals, colorize))
				}
				fmt.Fprintf(out, "Found %d signals, stored %d\n", result.SignalsFound, result.SignalsProcessed)
				if result.Canceled {
					fmt.Fprintln(out, "Scan interrupted; stored signals were kept")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&radars, "radar", "r", nil, "Radar to scan (repeatable; default all enabled)")
	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "Keyword filter (repeatable; overrides configured keywords)")
	cmd.Flags().BoolVar(&noKeywords, "no-keywords", false, "Disable keyword filtering")
	cmd.Flags().IntVarP(&target, "target", "n", 0, "Maximum signals to collect across all radars (0 = no limit)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("keyword", "no-keywords")
	return cmd
}
