package pdfapi_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/pdfapi/pdfapitest"
)

func TestListParamsQuery(t *testing.T) {
	testCases := []struct {
		name   string
		params pdfapi.ListParams
		want   url.Values
	}{
		{
			name:   "defaults",
			params: pdfapi.ListParams{},
			want: url.Values{
				"page": {"1"}, "itemsperpage": {"10"}, "sort": {"created_at"}, "order": {"desc"},
			},
		},
		{
			name:   "optional filters",
			params: pdfapi.ListParams{Page: 3, ItemsPerPage: 12, Order: "asc", Search: "go", Style: "short", Language: "english", PDFID: 7},
			want: url.Values{
				"page": {"3"}, "itemsperpage": {"12"}, "sort": {"created_at"}, "order": {"asc"},
				"search": {"go"}, "style": {"short"}, "language": {"english"}, "pdf": {"7"},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.params.Query())
		})
	}
}

func TestListDocumentsOmitsEmptySearch(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.AddDocument("Alpha", 100, 1)
	srv.AddDocument("Beta", 200, 2)

	page, err := srv.Client().ListDocuments(context.Background(), pdfapi.ListParams{ItemsPerPage: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalItems)
	assert.Equal(t, "Beta", page.Data[0].Title)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Query, "search")
	assert.Contains(t, calls[0].Query, "itemsperpage=12")
}

func TestGetDocumentNotFound(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()

	_, err := srv.Client().GetDocument(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pdfapi.ErrNotFound))
	assert.Equal(t, "PDF not found", pdfapi.Message(err))
}

func TestErrorNormalization(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode string
	}{
		{name: "json message", status: http.StatusBadRequest, body: `{"error":"invalid_request","message":"Invalid PDF ID"}`, wantMsg: "Invalid PDF ID", wantCode: "invalid_request"},
		{name: "non json body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: "Network error"},
		{name: "json without message", status: http.StatusInternalServerError, body: `{}`, wantMsg: "HTTP error! status: 500"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(testCase.status)
				_, _ = io.WriteString(w, testCase.body)
			}))
			defer ts.Close()

			client := pdfapi.New(pdfapi.Config{BaseURL: ts.URL})
			_, err := client.GetSummary(context.Background(), 1)

			var apiErr *pdfapi.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, testCase.status, apiErr.StatusCode)
			assert.Equal(t, testCase.wantMsg, apiErr.Message)
			assert.Equal(t, testCase.wantCode, apiErr.Code)
			assert.False(t, errors.Is(err, pdfapi.ErrNotFound))
		})
	}
}

func TestSendChatMapsRoles(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.ChatReply = "hello there"

	history := []pdfapi.HistoryEntry{
		{Author: pdfapi.AuthorUser, Content: "hi"},
		{Author: pdfapi.AuthorAI, Content: "hello"},
	}
	reply, err := srv.Client().SendChat(context.Background(), "what next?", history, []uint{3, 5})
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply.Reply)
	assert.Equal(t, "success", reply.Status)

	body := srv.LastChat()
	assert.Equal(t, "what next?", body["message"])
	assert.Equal(t, []any{float64(3), float64(5)}, body["pdf_ids"])
	turns, ok := body["history"].([]any)
	require.True(t, ok)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].(map[string]any)["role"])
	assert.Equal(t, "model", turns[1].(map[string]any)["role"])
}

func TestSendChatSendsEmptyArrays(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()

	_, err := srv.Client().SendChat(context.Background(), "hi", nil, nil)
	require.NoError(t, err)

	body := srv.LastChat()
	assert.Equal(t, []any{}, body["pdf_ids"])
	assert.Equal(t, []any{}, body["history"])
}

func TestBulkDeleteLimits(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	client := srv.Client()

	_, err := client.BulkDeleteSummaries(context.Background(), nil)
	assert.ErrorIs(t, err, pdfapi.ErrInvalidBulkDelete)

	tooMany := make([]uint, pdfapi.MaxBulkDelete+1)
	for i := range tooMany {
		tooMany[i] = uint(i + 1)
	}
	_, err = client.BulkDeleteSummaries(context.Background(), tooMany)
	assert.ErrorIs(t, err, pdfapi.ErrInvalidBulkDelete)
	assert.Empty(t, srv.Calls())

	doc := srv.AddDocument("Doc", 10, 1)
	a := srv.AddSummary(doc, pdfapi.StyleShort, pdfapi.LanguageEnglish, "a")
	b := srv.AddSummary(doc, pdfapi.StyleGeneral, pdfapi.LanguageEnglish, "b")
	res, err := client.BulkDeleteSummaries(context.Background(), []uint{a, b, 404})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.DeletedCount)
}

func TestDownloadDocument(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Annual Report", 10, 1)

	dl, err := srv.Client().DownloadDocument(context.Background(), id)
	require.NoError(t, err)
	defer dl.Close()

	assert.Equal(t, "Annual Report.pdf", dl.Filename("fallback.pdf"))
	data, err := io.ReadAll(dl.Body())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestDownloadDocumentFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	}))
	defer ts.Close()

	_, err := pdfapi.New(pdfapi.Config{BaseURL: ts.URL}).DownloadDocument(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, "Download failed", pdfapi.Message(err))
}

func TestFilenameFromDisposition(t *testing.T) {
	assert.Equal(t, "a b.pdf", pdfapi.FilenameFromDisposition(`attachment; filename="a b.pdf"`, "x.pdf"))
	assert.Equal(t, "x.pdf", pdfapi.FilenameFromDisposition(`attachment`, "x.pdf"))
	assert.Equal(t, "x.pdf", pdfapi.FilenameFromDisposition("", "x.pdf"))
}

func TestUploadDocument(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	client := srv.Client()

	doc, err := client.UploadDocument(context.Background(), "notes.pdf", strings.NewReader("%PDF-1.7 body"), "")
	require.NoError(t, err)
	assert.Equal(t, "notes", doc.Title)
	assert.EqualValues(t, len("%PDF-1.7 body"), doc.FileSize)

	doc, err = client.UploadDocument(context.Background(), "notes.pdf", strings.NewReader("%PDF-1.7"), "Custom")
	require.NoError(t, err)
	assert.Equal(t, "Custom", doc.Title)

	_, err = client.UploadDocument(context.Background(), "notes.txt", strings.NewReader("text"), "")
	require.Error(t, err)
	assert.Equal(t, "Only PDF files are allowed", pdfapi.Message(err))
}

func TestGenerateSummaryValidatesInput(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	client := srv.Client()
	id := srv.AddDocument("Doc", 10, 1)

	_, err := client.GenerateSummary(context.Background(), id, pdfapi.SummarizeRequest{Style: "poem", Language: pdfapi.LanguageEnglish})
	require.Error(t, err)
	assert.Empty(t, srv.Calls())

	res, err := client.GenerateSummary(context.Background(), id, pdfapi.SummarizeRequest{Style: pdfapi.StyleDetailed, Language: pdfapi.LanguageIndonesian})
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)

	doc, err := client.GetDocument(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, doc.HasSummaries())
	assert.Equal(t, 1, doc.SummaryVersion)
	assert.Equal(t, "indonesian", doc.Language)
}

func TestStatsAndHealth(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	client := srv.Client()
	id := srv.AddDocument("Doc", 10, 1)
	srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "one")
	srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageIndonesian, "two")

	stats, err := client.SummaryStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalSummaries)
	assert.EqualValues(t, 2, stats.ByStyle["short"])
	assert.EqualValues(t, 1, stats.ByLanguage["indonesian"])

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.EqualValues(t, 1, health.TotalPDFs)

	n, err := client.CountSummaries(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCreateDocument(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	client := srv.Client()

	doc, err := client.CreateDocument(context.Background(), pdfapi.CreateDocumentRequest{
		Filename:  "syllabus.pdf",
		FileSize:  4096,
		Title:     "Syllabus",
		PageCount: 7,
	})
	require.NoError(t, err)
	assert.NotZero(t, doc.ID)
	assert.Equal(t, "syllabus.pdf", doc.Filename)
	assert.Equal(t, "Syllabus", doc.Title)
	assert.Equal(t, 7, doc.PageCount)
	assert.Equal(t, 1, srv.CallCount(http.MethodPost, "/pdf"))

	got, err := client.GetDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), got.FileSize)
}

func TestCreateDocumentValidationError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Invalid request body: filename is required"}`)
	}))
	defer ts.Close()
	client := pdfapi.New(pdfapi.Config{BaseURL: ts.URL})

	_, err := client.CreateDocument(context.Background(), pdfapi.CreateDocumentRequest{Title: "No file"})
	require.Error(t, err)
	var apiErr *pdfapi.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid request body: filename is required", apiErr.Message)
}

func TestHealthUnhealthyKeepsBackendStatus(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.DatabaseDown = true

	health, err := srv.Client().Health(context.Background())
	require.Error(t, err)
	var apiErr *pdfapi.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "disconnected", health.Database)
	assert.Contains(t, health.Error, "connection refused")
}

func TestParseStyleAndLanguage(t *testing.T) {
	s, err := pdfapi.ParseStyle(" Detailed ")
	require.NoError(t, err)
	assert.Equal(t, pdfapi.StyleDetailed, s)
	_, err = pdfapi.ParseStyle("haiku")
	assert.Error(t, err)

	l, err := pdfapi.ParseLanguage("INDONESIAN")
	require.NoError(t, err)
	assert.Equal(t, pdfapi.LanguageIndonesian, l)
	_, err = pdfapi.ParseLanguage("french")
	assert.Error(t, err)
}

func TestDocumentDisplayName(t *testing.T) {
	assert.Equal(t, "file.pdf", pdfapi.Document{Filename: "file.pdf"}.DisplayName())
	assert.Equal(t, "Title", pdfapi.Document{Title: "Title", Filename: "file.pdf"}.DisplayName())
}
