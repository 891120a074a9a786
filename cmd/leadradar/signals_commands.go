package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"leadradar/internal/leads"
	"leadradar/internal/signals"
	"leadradar/internal/store"
)

func newSignalsCommand(ctx *commandContext) *cobra.Command {
	signalsCmd := &cobra.Command{
		Use:     "signals",
		Aliases: []string{"signal"},
		Short:   "Inspect and manage stored signals",
	}
	signalsCmd.AddCommand(newSignalsListCommand(ctx))
	signalsCmd.AddCommand(newSignalsShowCommand(ctx))
	signalsCmd.AddCommand(newSignalsArchiveCommand(ctx))
	signalsCmd.AddCommand(newSignalsAnalyzeCommand(ctx))
	signalsCmd.AddCommand(newSignalsRegenerateCommand(ctx))
	return signalsCmd
}

func newSignalsListCommand(ctx *commandContext) *cobra.Command {
	var (
		filter     leads.ListFilter
		archived   bool
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active signals, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				var (
					items []signals.Signal
					err   error
				)
				if archived {
					items, err = svc.Archived(cmd.Context())
				} else {
					items, err = svc.List(cmd.Context(), filter)
				}
				if err != nil {
					return err
				}
				return printSignals(cmd, items, jsonOutput)
			})
		},
	}
	cmd.Flags().StringVar(&filter.Source, "source", "", "Filter by radar (borme, traspasos, inmobiliario, linkedin)")
	cmd.Flags().StringVar(&filter.Temperature, "temperature", "", "Filter by temperature (High, Medium, Low)")
	cmd.Flags().StringVar(&filter.Status, "status", "", "Filter by status (new, reviewed, contacted)")
	cmd.Flags().BoolVar(&archived, "archived", false, "List archived signals instead")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSignalsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one signal in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				sig, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, sig)
				}
				printSignalDetail(cmd.OutOrStdout(), *sig)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSignalsArchiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Move a signal to the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				sig, err := svc.Archive(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Archived %s (%s)\n", sig.ID, sig.Name)
				return nil
			})
		},
	}
}

func newSignalsAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "analyze <id>",
		Short: "Re-run analysis and drafting for a signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				sig, err := svc.Analyze(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, sig)
				}
				printSignalDetail(cmd.OutOrStdout(), *sig)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSignalsRegenerateCommand(ctx *commandContext) *cobra.Command {
	var angle string
	cmd := &cobra.Command{
		Use:   "regenerate <id>",
		Short: "Write a new outreach draft for a signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				draft, _, err := svc.Regenerate(cmd.Context(), args[0], angle)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), draft)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&angle, "angle", "", "Requested angle for the new draft")
	return cmd
}

func printSignals(cmd *cobra.Command, items []signals.Signal, jsonOutput bool) error {
	if jsonOutput {
		if items == nil {
			items = []signals.Signal{}
		}
		return writeJSON(cmd, items)
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No signals")
		return nil
	}
	fmt.Fprintln(out, renderSignalTable(items, shouldColorize(out)))
	return nil
}

func renderSignalTable(items []signals.Signal, colorize bool) string {
	headers := []string{"ID", "Source", "Name", "Trigger", "Temp", "Status", "Date"}
	rows := make([][]string, 0, len(items))
	for _, sig := range items {
		rows = append(rows, []string{
			sig.ID,
			string(sig.Source),
			sig.Name,
			sig.Trigger,
			temperatureLabel(sig.Temperature, colorize),
			string(sig.Status),
			sig.Date,
		})
	}
	return renderTable(headers, rows, nil, 40)
}

func printSignalDetail(out io.Writer, sig signals.Signal) {
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader(sig.Name, colorize) {
		fmt.Fprintln(out, line)
	}
	fields := [][2]string{
		{"ID", sig.ID},
		{"Source", string(sig.Source)},
		{"Role", sig.RoleCompany},
		{"Location", sig.Location},
		{"Trigger", sig.Trigger},
		{"Temperature", temperatureLabel(sig.Temperature, colorize)},
		{"Status", string(sig.Status)},
		{"Date", sig.Date},
		{"Archived", yesNo(sig.IsArchived())},
		{"Intent", sig.AIAnalysis.Intent},
		{"Emotion", sig.AIAnalysis.Emotion},
		{"URL", sig.SourceURL},
	}
	for _, field := range fields {
		if strings.TrimSpace(field[1]) == "" {
			continue
		}
		fmt.Fprintf(out, "%-12s %s\n", field[0]+":", field[1])
	}
	fmt.Fprintf(out, "\nExcerpt:\n  %s\n", sig.Excerpt)
	fmt.Fprintf(out, "\nDraft:\n  %s\n", sig.DraftMessage)
}
