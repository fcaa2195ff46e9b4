package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"pdf-desk/cmd/internal/format"
	"pdf-desk/cmd/internal/services"
)

func newSummariesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summaries",
		Short: "Browse and manage generated summaries",
	}
	cmd.AddCommand(
		newSummariesListCmd(a),
		newSummariesShowCmd(a),
		newSummariesDeleteCmd(a),
		newSummariesBulkDeleteCmd(a),
		newSummariesStatsCmd(a),
	)
	return cmd
}

func newSummariesListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.summaries().List(cmd.Context(), f.summaries())
			if err != nil {
				return a.fail("Failed to load summaries", err)
			}
			printSummaryPage(a.out, view)
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func newSummariesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.summaries().Detail(cmd.Context(), id)
			if err != nil {
				return a.fail("Failed to load summary", err)
			}
			tw := newTable(a.out)
			fmt.Fprintf(tw, "Document:\t%s (%s)\n", s.DocumentName, s.Filename)
			fmt.Fprintf(tw, "Style:\t%s\n", s.Style)
			fmt.Fprintf(tw, "Language:\t%s\n", s.Language)
			fmt.Fprintf(tw, "Words:\t%d\n", s.WordCount)
			fmt.Fprintf(tw, "Took:\t%s\n", s.Duration)
			fmt.Fprintf(tw, "Created:\t%s (%s)\n", s.CreatedAt.Local().Format(format.DateLayout), s.CreatedAgo)
			tw.Flush()
			fmt.Fprintln(a.out)
			printMarkdown(a.out, s.Content)
			return nil
		},
	}
}

func newSummariesDeleteCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			confirm := a.confirm(services.PromptDeleteSummary)
			if !confirm {
				fmt.Fprintln(a.out, "Cancelled.")
				return nil
			}
			view, err := a.summaries().DeleteAndRefresh(cmd.Context(), id, confirm, f.summaries())
			if err != nil {
				return a.fail(services.FailedDeleteSummary, err)
			}
			fmt.Fprintf(a.out, "Deleted summary %d.\n\n", id)
			printSummaryPage(a.out, view)
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func newSummariesBulkDeleteCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "bulk-delete <id>...",
		Short: "Delete up to 100 summaries at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uint, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			confirm := a.confirm(services.PromptDeleteSummaries)
			if !confirm {
				fmt.Fprintln(a.out, "Cancelled.")
				return nil
			}
			res, view, err := a.summaries().BulkDeleteAndRefresh(cmd.Context(), ids, confirm, f.summaries())
			if err != nil {
				return a.fail(services.FailedDeleteSummary, err)
			}
			fmt.Fprintf(a.out, "%s (%d deleted)\n\n", res.Message, res.DeletedCount)
			printSummaryPage(a.out, view)
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func printSummaryPage(w io.Writer, view services.SummaryListView) {
	printSummaries(w, view.ListView)
	st := view.Stats
	fmt.Fprintf(w, "This page: %d total, %d English, %d Indonesian, %d avg words\n",
		st.Total, st.English, st.Indonesian, st.AvgWords)
}

func newSummariesStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show summary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.summaries().Stats(cmd.Context())
			if err != nil {
				return a.fail("Failed to load statistics", err)
			}
			tw := newTable(a.out)
			fmt.Fprintf(tw, "Documents:\t%d\n", st.TotalPDFs)
			fmt.Fprintf(tw, "Summaries:\t%d\n", st.TotalSummaries)
			fmt.Fprintf(tw, "Avg time:\t%s\n", format.Duration(st.AvgSummaryTime))
			for _, k := range sortedKeys(st.ByStyle) {
				fmt.Fprintf(tw, "  style %s:\t%d\n", k, st.ByStyle[k])
			}
			for _, k := range sortedKeys(st.ByLanguage) {
				fmt.Fprintf(tw, "  language %s:\t%d\n", k, st.ByLanguage[k])
			}
			return tw.Flush()
		},
	}
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
