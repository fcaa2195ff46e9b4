package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/services"
	"pdf-desk/cmd/internal/study"
)

const studyHelp = `Commands:
  /add <id>      add a document to the conversation
  /remove <id>   remove a document
  /docs          list selected documents
  /reset         clear the conversation
  /help          show this help
  /quit          leave
Anything else is sent as a question about the selected documents.`

func newStudyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "study [id...]",
		Short: "Chat with the AI about selected documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &studyREPL{app: a, sess: study.NewSession(a.api())}
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				r.add(cmd.Context(), id)
			}
			fmt.Fprintln(a.out, studyHelp)
			return r.run(cmd.Context())
		},
	}
}

type studyREPL struct {
	*app
	sess *study.Session
}

func (r *studyREPL) run(ctx context.Context) error {
	for {
		fmt.Fprint(r.out, "\n> ")
		line, err := r.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			r.send(ctx, line)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(r.out, studyHelp)
		case "/docs":
			r.printSelected()
		case "/reset":
			r.sess.Reset()
			fmt.Fprintln(r.out, "Conversation cleared.")
		case "/add", "/remove":
			if len(fields) != 2 {
				fmt.Fprintf(r.out, "usage: %s <id>\n", fields[0])
				continue
			}
			id, err := parseID(fields[1])
			if err != nil {
				fmt.Fprintln(r.out, err)
				continue
			}
			if fields[0] == "/add" {
				r.add(ctx, id)
			} else {
				r.sess.Remove(id)
				r.printSelected()
			}
		default:
			fmt.Fprintf(r.out, "unknown command %s (try /help)\n", fields[0])
		}
	}
}

// add 는 문서를 추가한다. 요약이 없으면 지금 생성할지 묻는다.
func (r *studyREPL) add(ctx context.Context, id uint) {
	err := r.sess.Add(ctx, pdfapi.Document{ID: id})
	var needs *study.NeedsSummaryError
	switch {
	case errors.As(err, &needs):
		name := needs.Document.DisplayName()
		if !r.confirm(fmt.Sprintf("%q has no summaries yet. Generate one now?", name)) {
			fmt.Fprintf(r.out, "Skipped %q.\n", name)
			return
		}
		r.remediate(ctx, needs.Document)
		return
	case err != nil:
		r.notify(services.Failure("Failed to add document", err))
		return
	}
	r.printSelected()
}

func (r *studyREPL) remediate(ctx context.Context, doc pdfapi.Document) {
	fmt.Fprintf(r.out, "Generating a summary for %q...\n", doc.DisplayName())
	if _, err := r.documents().GenerateSummary(ctx, doc.ID, "", ""); err != nil {
		r.notify(services.Failure(services.FailedGenerateSummary, err))
		return
	}
	r.notify(services.Success(services.MsgSummaryGenerated))
	if _, err := r.sess.Refresh(ctx, doc.ID); err != nil {
		r.notify(services.Failure("Failed to add document", err))
		return
	}
	r.printSelected()
}

func (r *studyREPL) send(ctx context.Context, text string) {
	reply, err := r.sess.Send(ctx, text)
	var missing *study.MissingSummariesError
	switch {
	case errors.Is(err, study.ErrNothingToSend):
		fmt.Fprintln(r.out, "Add at least one document with /add <id> first.")
		return
	case errors.As(err, &missing):
		for _, d := range missing.Documents {
			if r.confirm(fmt.Sprintf("%q has no summaries yet. Generate one now?", d.DisplayName())) {
				r.remediate(ctx, d)
			}
		}
		return
	case errors.Is(err, study.ErrBusy):
		fmt.Fprintln(r.out, "Still waiting for the previous answer.")
		return
	}

	fmt.Fprintln(r.out)
	printMarkdown(r.out, reply.Content)
	if err != nil {
		r.notify(services.Failure(services.FailedChat, err))
	}
}

func (r *studyREPL) printSelected() {
	docs := r.sess.Selected()
	if len(docs) == 0 {
		fmt.Fprintln(r.out, "No documents selected.")
		return
	}
	fmt.Fprintln(r.out, "Selected documents:")
	for _, d := range docs {
		fmt.Fprintf(r.out, "  [%d] %s (%d summaries)\n", d.ID, d.DisplayName(), len(d.Summaries))
	}
}
