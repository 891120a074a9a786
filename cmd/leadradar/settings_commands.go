package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"leadradar/internal/leads"
	"leadradar/internal/services"
	"leadradar/internal/signals"
	"leadradar/internal/store"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change radar settings",
	}
	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsToggleCommand(ctx, "enable", true))
	settingsCmd.AddCommand(newSettingsToggleCommand(ctx, "disable", false))
	settingsCmd.AddCommand(newSettingsKeywordsCommand(ctx))
	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the configuration of every radar",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				settings, err := svc.Settings(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, settings)
				}
				printSettings(cmd, settings)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSettingsToggleCommand(ctx *commandContext, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <radar>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a radar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				source, entry, err := currentRadar(cmd, svc, args[0])
				if err != nil {
					return err
				}
				entry.Enabled = enabled
				settings, err := svc.UpdateSettings(cmd.Context(), signals.RadarSettings{source: entry})
				if err != nil {
					return err
				}
				printSettings(cmd, settings)
				return nil
			})
		},
	}
}

func newSettingsKeywordsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "keywords <radar> [keyword...]",
		Short: "Replace the keyword list of a radar",
		Long:  "Replaces the keywords of one radar. Passing no keywords clears the list.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				source, entry, err := currentRadar(cmd, svc, args[0])
				if err != nil {
					return err
				}
				entry.Keywords = append([]string{}, args[1:]...)
				settings, err := svc.UpdateSettings(cmd.Context(), signals.RadarSettings{source: entry})
				if err != nil {
					return err
				}
				printSettings(cmd, settings)
				return nil
			})
		},
	}
}

func currentRadar(cmd *cobra.Command, svc *leads.Service, name string) (signals.Source, signals.RadarConfig, error) {
	source, ok := signals.ParseSource(name)
	if !ok {
		return "", signals.RadarConfig{}, services.Validation("unknown radar: " + strings.TrimSpace(name))
	}
	settings, err := svc.Settings(cmd.Context())
	if err != nil {
		return "", signals.RadarConfig{}, err
	}
	return source, settings[source], nil
}

func printSettings(cmd *cobra.Command, settings signals.RadarSettings) {
	rows := make([][]string, 0, len(settings))
	for _, source := range signals.AllSources() {
		entry, ok := settings[source]
		if !ok {
			continue
		}
		rows = append(rows, []string{string(source), yesNo(entry.Enabled), strings.Join(entry.Keywords, ", ")})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Radar", "Enabled", "Keywords"}, rows, nil, 60))
}
