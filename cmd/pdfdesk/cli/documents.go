package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pdf-desk/cmd/internal/format"
	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/services"
)

func newDocumentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs", "pdf"},
		Short:   "Manage uploaded PDF documents",
	}
	cmd.AddCommand(
		newDocumentsListCmd(a),
		newDocumentsShowCmd(a),
		newDocumentsUploadCmd(a),
		newDocumentsDeleteCmd(a),
		newDocumentsDownloadCmd(a),
		newDocumentsSummarizeCmd(a),
		newDocumentsHistoryCmd(a),
	)
	return cmd
}

func newDocumentsListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.documents().List(cmd.Context(), f.documents())
			if err != nil {
				return a.fail("Failed to load documents", err)
			}
			printDocuments(a.out, view)
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func newDocumentsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a document and its latest summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			view, err := a.documents().Detail(cmd.Context(), id)
			if err != nil {
				return a.fail("Failed to load document", err)
			}
			d := view.Document
			tw := newTable(a.out)
			fmt.Fprintf(tw, "Title:\t%s\n", d.Name)
			fmt.Fprintf(tw, "Filename:\t%s\n", d.Filename)
			fmt.Fprintf(tw, "Size:\t%s\n", d.Size)
			fmt.Fprintf(tw, "Pages:\t%d\n", d.Pages)
			fmt.Fprintf(tw, "Uploaded:\t%s (%s)\n", d.UploadedAt.Local().Format(format.DateLayout), d.UploadedAgo)
			fmt.Fprintf(tw, "Summaries:\t%d\n", len(view.Summaries))
			tw.Flush()

			if view.LatestSummary == nil {
				fmt.Fprintf(a.out, "\nNo summary yet. Run `pdfdesk documents summarize %d` to create one.\n", d.ID)
				return nil
			}
			ls := view.LatestSummary
			fmt.Fprintf(a.out, "\nLatest summary (v%d, %s, %s, %s):\n\n", ls.Version, ls.Style, ls.Language, format.Duration(ls.SummaryTime))
			printMarkdown(a.out, ls.Content)
			return nil
		},
	}
}

func newDocumentsUploadCmd(a *app) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			last := -1
			progress := func(percent int) {
				if percent == last {
					return
				}
				last = percent
				fmt.Fprintf(a.out, "\rUploading... %3d%%", percent)
			}
			card, err := a.documents().Upload(cmd.Context(), args[0], title, progress)
			if last >= 0 {
				fmt.Fprintln(a.out)
			}
			if err != nil {
				return a.fail(services.FailedUpload, err)
			}
			a.notify(services.Success(services.MsgUploaded))
			fmt.Fprintf(a.out, "%d\t%s (%s, %d pages)\n", card.ID, card.Name, card.Size, card.Pages)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "document title (defaults to the file name)")
	return cmd
}

func newDocumentsDeleteCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document and its summaries",
		Long:  "Delete a document and its summaries, then show the refreshed document list.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			confirm := a.confirm(services.PromptDeleteDocument)
			if !confirm {
				fmt.Fprintln(a.out, "Cancelled.")
				return nil
			}
			view, err := a.documents().DeleteAndRefresh(cmd.Context(), id, confirm, f.documents())
			if err != nil {
				return a.fail(services.FailedDeleteDocument, err)
			}
			fmt.Fprintf(a.out, "Deleted document %d.\n\n", id)
			printDocuments(a.out, view)
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func newDocumentsDownloadCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download the original PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			name := ""
			if detail, err := a.documents().Detail(cmd.Context(), id); err == nil {
				name = detail.Document.Name
			}
			file, err := a.documents().Download(cmd.Context(), id, name)
			if err != nil {
				return a.fail(services.FailedDownloadDocument, err)
			}
			defer file.Body.Close()

			target := file.Filename
			if output != "" {
				target = output
				if info, err := os.Stat(output); err == nil && info.IsDir() {
					target = filepath.Join(output, file.Filename)
				}
			}
			dst, err := os.Create(target)
			if err != nil {
				return a.fail(services.FailedDownloadDocument, err)
			}
			n, err := io.Copy(dst, file.Body)
			if cerr := dst.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return a.fail(services.FailedDownloadDocument, err)
			}
			fmt.Fprintf(a.out, "Saved %s (%s)\n", target, format.FileSize(n))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory (default: current directory)")
	return cmd
}

func newDocumentsSummarizeCmd(a *app) *cobra.Command {
	var style, language string
	cmd := &cobra.Command{
		Use:   "summarize <id>",
		Short: "Generate an AI summary for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := pdfapi.ParseStyle(style)
			if err != nil {
				return err
			}
			lang, err := pdfapi.ParseLanguage(language)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Generating %s summary in %s...\n", st, lang)
			res, err := a.documents().GenerateSummary(cmd.Context(), id, st, lang)
			if err != nil {
				return a.fail(services.FailedGenerateSummary, err)
			}
			a.notify(services.Success(services.MsgSummaryGenerated))
			fmt.Fprintf(a.out, "%d words, %s\n\n", res.Summary.WordCount, format.Duration(res.ProcessingInfo.ProcessingTimeSeconds))
			printMarkdown(a.out, res.Summary.MainSummary)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", string(pdfapi.StyleGeneral), "short, general or detailed")
	cmd.Flags().StringVar(&language, "language", string(pdfapi.LanguageEnglish), "english or indonesian")
	return cmd
}

func newDocumentsHistoryCmd(a *app) *cobra.Command {
	var page int
	var order string
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "List the summary history of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			view, err := a.documents().History(cmd.Context(), id, page, order)
			if err != nil {
				return a.fail("Failed to load summary history", err)
			}
			printSummaries(a.out, view)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&order, "order", "", "asc or desc (default desc)")
	return cmd
}
