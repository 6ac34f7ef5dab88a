package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zjrosen/ringside/internal/config"
	"github.com/zjrosen/ringside/internal/presentation"
)

var showsCmd = &cobra.Command{
	Use:   "shows",
	Short: "List the shows in the database, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, _ := cmd.Flags().GetString("output")
		format, err := outputFormat(output)
		if err != nil {
			return err
		}
		return listShows(cmd.Context(), cmd.OutOrStdout(), cfg, format)
	},
}

func init() {
	rootCmd.AddCommand(showsCmd)

	showsCmd.Flags().StringP("output", "o", "text", "output format: text, json or yaml")
}

// listShows prints a table of shows, or DTOs when format is set.
func listShows(ctx context.Context, w io.Writer, c config.Config, format presentation.Format) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	shows, err := e.svc.Shows(ctx)
	if err != nil {
		return err
	}
	if format != "" {
		return presentation.NewFormatter(w, format).FormatShows(presentation.FromShows(shows))
	}
	if len(shows) == 0 {
		_, err := fmt.Fprintln(w, "No shows")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "DATE", "VENUE", "DOGS")
	for _, s := range shows {
		date := ""
		if !s.Date.IsZero() {
			date = s.Date.Format("2006-01-02")
		}
		t.Row(s.ID, s.Name, date, s.Venue, strconv.Itoa(s.Registrations))
	}
	_, err = fmt.Fprintln(w, t.Render())
	return err
}
