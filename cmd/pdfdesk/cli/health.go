package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdf-desk/cmd/internal/format"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.stats().Health(cmd.Context())
			if err != nil && h.Status == "" {
				return a.fail("Backend unreachable", err)
			}
			tw := newTable(a.out)
			fmt.Fprintf(tw, "Backend:\t%s\n", a.api().BaseURL())
			fmt.Fprintf(tw, "Status:\t%s\n", h.Status)
			fmt.Fprintf(tw, "Database:\t%s\n", h.Database)
			if h.Version != "" {
				fmt.Fprintf(tw, "Version:\t%s\n", h.Version)
			}
			if h.Error != "" {
				fmt.Fprintf(tw, "Error:\t%s\n", h.Error)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if format.StatusTone(h.Status) != format.ToneSuccess {
				return fmt.Errorf("backend is %s", h.Status)
			}
			return nil
		},
	}
}

func newHomeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show document and summary totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.stats().Home(cmd.Context())
			if err != nil {
				return a.fail("Failed to load statistics", err)
			}
			fmt.Fprintf(a.out, "%d documents, %d summaries\n", st.TotalDocuments, st.TotalSummaries)
			return nil
		},
	}
}
