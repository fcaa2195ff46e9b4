package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/pdfapi/pdfapitest"
	"pdf-desk/cmd/internal/services"
)

type result struct {
	out    string
	errOut string
	err    error
}

func run(t *testing.T, srv *pdfapitest.Server, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(append([]string{"--api-url", srv.URL, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func TestDocumentsList(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.AddDocument("Thermodynamics", 1536, 10)
	srv.AddDocument("Optics", 2048, 3)

	res := run(t, srv, "", "documents", "list", "--search", "optics")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Optics")
	assert.NotContains(t, res.out, "Thermodynamics")
	assert.Contains(t, res.out, "2 KB")
	assert.Contains(t, res.out, "Showing 1 to 1 of 1 documents")

	res = run(t, srv, "", "documents", "list", "--per-page", "1", "--page", "2")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Page 2 of 2")
	assert.Contains(t, srv.Calls()[len(srv.Calls())-1].Query, "itemsperpage=1")
}

func TestDocumentsShowNotFound(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()

	res := run(t, srv, "", "documents", "show", "42")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, pdfapi.ErrNotFound)
	var reported reportedError
	assert.True(t, errors.As(res.err, &reported))
	assert.Contains(t, res.errOut, "Failed to load document: PDF not found")
}

func TestDocumentsShowLatestSummary(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Cells", 100, 2)
	srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "Cells are **small**.")

	res := run(t, srv, "", "documents", "show", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Cells")
	assert.Contains(t, res.out, "Latest summary (v1, short, english")
	assert.Contains(t, res.out, "Cells are small.")
}

func TestDocumentsDeleteConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		deleted bool
	}{
		{"declined", "n\n", nil, false},
		{"no input", "", nil, false},
		{"accepted", "y\n", nil, true},
		{"yes flag", "", []string{"--yes"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := pdfapitest.New()
			defer srv.Close()
			srv.AddDocument("Doomed", 10, 1)
			srv.AddDocument("Survivor", 10, 1)

			args := append([]string{"documents", "delete", "1"}, tt.args...)
			res := run(t, srv, tt.stdin, args...)
			require.NoError(t, res.err)

			calls := srv.CallCount(http.MethodDelete, "/pdf/1")
			if tt.deleted {
				assert.Equal(t, 1, calls)
				assert.Contains(t, res.out, "Deleted document 1.")
				refreshed := res.out[strings.Index(res.out, "Deleted document 1."):]
				assert.Contains(t, refreshed, "Survivor")
				assert.NotContains(t, refreshed, "Doomed")
				assert.Equal(t, 1, srv.CallCount(http.MethodGet, "/pdf"))
			} else {
				assert.Zero(t, calls)
				assert.Contains(t, res.out, "Cancelled.")
			}
			if tt.args == nil {
				assert.Contains(t, res.out, services.PromptDeleteDocument)
			}
		})
	}
}

func TestDocumentsUploadAndDownload(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	dir := t.TempDir()
	path := filepath.Join(dir, "lecture.pdf")
	require.NoError(t, os.WriteFile(path, pdfapitest.MinimalPDF(3), 0o644))

	res := run(t, srv, "", "documents", "upload", path, "--title", "Lecture Notes")
	require.NoError(t, res.err, res.errOut)
	assert.Contains(t, res.out, "Uploading... 100%")
	assert.Contains(t, res.out, services.MsgUploaded)
	assert.Contains(t, res.out, "Lecture Notes")

	out := t.TempDir()
	res = run(t, srv, "", "documents", "download", "1", "-o", out)
	require.NoError(t, res.err, res.errOut)
	data, err := os.ReadFile(filepath.Join(out, "Lecture Notes.pdf"))
	require.NoError(t, err)
	assert.Equal(t, pdfapitest.MinimalPDF(3), data)
}

func TestDocumentsDownloadStaysInOutputDir(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.AddDocument("../x", 10, 1)

	root := t.TempDir()
	out := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(out, 0o755))

	res := run(t, srv, "", "documents", "download", "1", "-o", out)
	require.NoError(t, res.err, res.errOut)
	assert.FileExists(t, filepath.Join(out, "x.pdf"))
	assert.NoFileExists(t, filepath.Join(root, "x.pdf"))
}

func TestDocumentsUploadRejectsNonPDF(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	res := run(t, srv, "", "documents", "upload", path)
	require.Error(t, res.err)
	assert.Contains(t, res.errOut, services.FailedUpload+": "+services.MsgPDFOnly)
	assert.Zero(t, srv.CallCount(http.MethodPost, "/pdf/upload"))
}

func TestDocumentsSummarizeAndHistory(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.AddDocument("Genetics", 10, 1)

	res := run(t, srv, "", "documents", "summarize", "1", "--style", "detailed", "--language", "indonesian")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, services.MsgSummaryGenerated)
	assert.Contains(t, res.out, "detailed summary of Genetics")
	assert.Equal(t, "indonesian", lastSummaryLanguage(t, srv))

	res = run(t, srv, "", "documents", "summarize", "1", "--style", "haiku")
	require.Error(t, res.err)

	res = run(t, srv, "", "documents", "history", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "detailed")
	assert.Contains(t, res.out, "Genetics")
}

func lastSummaryLanguage(t *testing.T, srv *pdfapitest.Server) string {
	t.Helper()
	view, err := services.NewSummaryService(srv.Client(), 0).List(context.Background(), services.ListSummariesInput{})
	require.NoError(t, err)
	require.NotEmpty(t, view.Items)
	return view.Items[0].Language
}

func TestSummariesCommands(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Algebra", 10, 1)
	srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "one two three four")
	srv.AddSummary(id, pdfapi.StyleGeneral, pdfapi.LanguageIndonesian, "satu dua")

	res := run(t, srv, "", "summaries", "list", "--language", "indonesian")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "satu dua")
	assert.NotContains(t, res.out, "one two")
	assert.Contains(t, res.out, "This page: 1 total, 0 English, 1 Indonesian, 2 avg words")

	res = run(t, srv, "", "summaries", "show", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Algebra")
	assert.Contains(t, res.out, "one two three four")

	res = run(t, srv, "", "summaries", "stats")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Summaries:")

	res = run(t, srv, "", "summaries", "bulk-delete", "1", "2", "--yes")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "(2 deleted)")
	assert.Contains(t, res.out, "No summaries found.")

	res = run(t, srv, "", "summaries", "bulk-delete", "x")
	require.Error(t, res.err)
}

func TestSummariesDeleteShowsRefreshedPage(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Algebra", 10, 1)
	srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "first summary")
	srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "second summary")

	res := run(t, srv, "", "summaries", "delete", "2", "--yes")
	require.NoError(t, res.err, res.errOut)
	assert.Contains(t, res.out, "Deleted summary 2.")
	assert.Contains(t, res.out, "first summary")
	assert.NotContains(t, res.out, "second summary")
	assert.Contains(t, res.out, "This page: 1 total")
}

func TestHealthAndHome(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.AddDocument("A", 10, 1)

	res := run(t, srv, "", "health")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "healthy")

	res = run(t, srv, "", "home")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "1 documents, 0 summaries")
}

func TestHealthUnhealthyBackend(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.DatabaseDown = true

	res := run(t, srv, "", "health")
	require.Error(t, res.err)
	assert.Contains(t, res.out, "unhealthy")
	assert.Contains(t, res.out, "disconnected")
	assert.Contains(t, res.out, "connection refused")
}

func TestStudySession(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.AddDocument("Ecology", 10, 1)

	stdin := strings.Join([]string{
		"hello",    // 선택 문서 없음
		"/add 1",   // 요약 없음
		"y",        // 지금 생성
		"/docs",
		"What is ecology?",
		"/quit",
	}, "\n") + "\n"

	res := run(t, srv, stdin, "study")
	require.NoError(t, res.err, res.errOut)
	assert.Contains(t, res.out, "Add at least one document")
	assert.Contains(t, res.out, `"Ecology" has no summaries yet. Generate one now?`)
	assert.Contains(t, res.out, services.MsgSummaryGenerated)
	assert.Contains(t, res.out, "[1] Ecology (1 summaries)")
	assert.Contains(t, res.out, "echo: What is ecology?")

	chat := srv.LastChat()
	assert.Equal(t, []any{float64(1)}, chat["pdf_ids"])
}

func TestStudyChatFailure(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.FailChat = true
	id := srv.AddDocument("Ecology", 10, 1)
	srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "s")

	res := run(t, srv, "Why?\n", "study", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Sorry, I encountered an error")
	assert.Contains(t, res.errOut, services.FailedChat+": Python backend error")
}
