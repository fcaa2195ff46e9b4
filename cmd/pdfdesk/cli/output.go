package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pdf-desk/cmd/internal/format"
	"pdf-desk/cmd/internal/markdown"
	"pdf-desk/cmd/internal/services"
)

// listFlags 는 목록 명령 공통 플래그다.
type listFlags struct {
	page     int
	perPage  int
	sort     string
	order    string
	search   string
	style    string
	language string
}

func (f *listFlags) register(cmd *cobra.Command, filters bool) {
	fl := cmd.Flags()
	fl.IntVar(&f.page, "page", 1, "page number")
	fl.IntVar(&f.perPage, "per-page", 0, "items per page (default from config)")
	fl.StringVar(&f.sort, "sort", "", "sort field (default created_at)")
	fl.StringVar(&f.order, "order", "", "asc or desc (default desc)")
	fl.StringVar(&f.search, "search", "", "search text")
	if filters {
		fl.StringVar(&f.style, "style", services.FilterAll, "all, short, general or detailed")
		fl.StringVar(&f.language, "language", services.FilterAll, "all, english or indonesian")
	}
}

func (f *listFlags) documents() services.ListDocumentsInput {
	return services.ListDocumentsInput{
		Page:         f.page,
		ItemsPerPage: f.perPage,
		SortBy:       f.sort,
		Order:        f.order,
		Search:       f.search,
	}
}

func (f *listFlags) summaries() services.ListSummariesInput {
	return services.ListSummariesInput{
		Page:         f.page,
		ItemsPerPage: f.perPage,
		SortBy:       f.sort,
		Order:        f.order,
		Search:       f.search,
		Style:        f.style,
		Language:     f.language,
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func parseID(arg string) (uint, error) {
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return uint(n), nil
}

func printFooter[T any](w io.Writer, v services.ListView[T]) {
	if v.Label != "" {
		fmt.Fprintln(w, v.Label)
	}
	if v.Window.TotalPages > 1 {
		fmt.Fprintf(w, "Page %d of %d\n", v.Window.Page, v.Window.TotalPages)
	}
}

func printDocuments(w io.Writer, v services.DocumentListView) {
	if len(v.Items) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tPAGES\tSUMMARIES\tUPLOADED")
	for _, d := range v.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", d.ID, d.Name, d.Size, d.Pages, d.SummaryCount, d.UploadedAgo)
	}
	tw.Flush()
	printFooter(w, v)
}

func printSummaries(w io.Writer, v services.ListView[services.SummaryView]) {
	if len(v.Items) == 0 {
		fmt.Fprintln(w, "No summaries found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDOCUMENT\tSTYLE\tLANGUAGE\tWORDS\tCREATED\tPREVIEW")
	for _, s := range v.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			s.ID, s.DocumentName, s.Style, s.Language, s.WordCount, s.CreatedAgo, oneLine(format.Preview(s.Content, 60)))
	}
	tw.Flush()
	printFooter(w, v)
}

// printMarkdown 은 요약/답변 본문을 터미널용 텍스트로 출력한다.
func printMarkdown(w io.Writer, content string) {
	fmt.Fprintln(w, markdown.PlainText(markdown.ToHTML(content)))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
