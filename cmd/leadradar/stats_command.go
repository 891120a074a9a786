package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"leadradar/internal/leads"
	"leadradar/internal/signals"
	"leadradar/internal/store"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *leads.Service, _ *store.Store) error {
				stats, err := svc.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, stats)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Dashboard", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintf(out, "%-14s %d\n", "Total leads:", stats.TotalLeads)
				fmt.Fprintf(out, "%-14s %d\n", "High ticket:", stats.HighTicket)
				fmt.Fprintf(out, "%-14s %d\n", "New today:", stats.NewToday)
				fmt.Fprintf(out, "%-14s %d\n\n", "Scrapes today:", stats.ScrapesToday)

				rows := make([][]string, 0, len(stats.BySource))
				for _, source := range signals.AllSources() {
					rows = append(rows, []string{string(source), strconv.Itoa(stats.BySource[source])})
				}
				fmt.Fprintln(out, renderTable([]string{"Source", "Signals"}, rows, nil, 0))

				rows = rows[:0]
				for _, tier := range signals.AllTemperatures() {
					rows = append(rows, []string{temperatureLabel(tier, colorize), strconv.Itoa(stats.ByTemperature[tier])})
				}
				fmt.Fprintln(out, renderTable([]string{"Temperature", "Signals"}, rows, nil, 0))

				if len(stats.RecentSearches) > 0 {
					rows = rows[:0]
					for _, entry := range stats.RecentSearches {
						rows = append(rows, []string{entry.Query, strconv.Itoa(entry.Results), entry.Date.Local().Format("2006-01-02 15:04")})
					}
					fmt.Fprintln(out, renderTable([]string{"Recent search", "Results", "When"}, rows, nil, 0))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
