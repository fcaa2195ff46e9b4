package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/pdfapi/pdfapitest"
	"pdf-desk/cmd/internal/upload"
)

func TestDocumentList(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	for i := 0; i < 14; i++ {
		srv.AddDocument("", 2048, 4)
	}
	titled := srv.AddDocument("Thermodynamics", 1536, 10)
	srv.AddSummary(titled, pdfapi.StyleShort, pdfapi.LanguageEnglish, "Heat moves.")

	svc := NewDocumentService(srv.Client(), 0)
	view, err := svc.List(context.Background(), ListDocumentsInput{})
	require.NoError(t, err)

	require.Len(t, view.Items, 12)
	first := view.Items[0]
	assert.Equal(t, "Thermodynamics", first.Name)
	assert.Equal(t, "1.5 KB", first.Size)
	assert.Equal(t, 1, first.SummaryCount)
	assert.Equal(t, "Today", first.UploadedAgo)
	assert.Equal(t, "14.pdf", view.Items[1].Name)
	assert.Equal(t, "Showing 1 to 12 of 15 documents", view.Label)
	assert.Equal(t, []int{1, 2}, view.Pages)
	assert.Contains(t, srv.Calls()[0].Query, "itemsperpage=12")
}

func TestDocumentDetailLatestSummary(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	plain := srv.AddDocument("Plain", 10, 1)
	withSummary := srv.AddDocument("Summarized", 10, 1)
	srv.AddSummary(withSummary, pdfapi.StyleDetailed, pdfapi.LanguageIndonesian, "Ringkasan.")

	svc := NewDocumentService(srv.Client(), 0)

	view, err := svc.Detail(context.Background(), plain)
	require.NoError(t, err)
	assert.Nil(t, view.LatestSummary)
	assert.Empty(t, view.Summaries)

	view, err = svc.Detail(context.Background(), withSummary)
	require.NoError(t, err)
	require.NotNil(t, view.LatestSummary)
	assert.Equal(t, "Ringkasan.", view.LatestSummary.Content)
	assert.Equal(t, "indonesian", view.LatestSummary.Language)
	require.Len(t, view.Summaries, 1)
	assert.Equal(t, "Summarized", view.Summaries[0].DocumentName)
}

func TestDocumentDeleteRequiresConfirmation(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Doomed", 10, 1)
	svc := NewDocumentService(srv.Client(), 0)

	err := svc.Delete(context.Background(), id, Unconfirmed)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Empty(t, srv.Calls())

	require.NoError(t, svc.Delete(context.Background(), id, Confirmed))
	_, err = svc.Detail(context.Background(), id)
	assert.True(t, errors.Is(err, pdfapi.ErrNotFound))
}

func TestDocumentDeleteAndRefresh(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	var last uint
	for i := 0; i < 13; i++ {
		last = srv.AddDocument("", 10, 1)
	}
	svc := NewDocumentService(srv.Client(), 12)

	// 2페이지에는 가장 오래된 문서 하나만 있다.
	oldest := uint(1)
	view, err := svc.DeleteAndRefresh(context.Background(), oldest, Confirmed, ListDocumentsInput{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Window.Page)
	assert.Len(t, view.Items, 12)
	assert.Equal(t, last, view.Items[0].ID)
	assert.Equal(t, 1, srv.CallCount("DELETE", "/pdf/1"))
	assert.Equal(t, 2, srv.CallCount("GET", "/pdf"))
}

func TestSummaryDeleteAndRefresh(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	doc := srv.AddDocument("Doc", 10, 1)
	var ids []uint
	for i := 0; i < 4; i++ {
		ids = append(ids, srv.AddSummary(doc, pdfapi.StyleShort, pdfapi.LanguageEnglish, "text"))
	}
	svc := NewSummaryService(srv.Client(), 2)

	view, err := svc.DeleteAndRefresh(context.Background(), ids[3], Confirmed, ListSummariesInput{Page: 1})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	for _, it := range view.Items {
		assert.NotEqual(t, ids[3], it.ID)
	}
	assert.Equal(t, int64(3), view.Window.TotalItems)

	_, err = svc.DeleteAndRefresh(context.Background(), ids[2], Unconfirmed, ListSummariesInput{Page: 1})
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Zero(t, srv.CallCount("DELETE", "/summaries/"+strconv.FormatUint(uint64(ids[2]), 10)))
}

func TestSummaryBulkDeleteAndRefreshFallsBackToLastPage(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	doc := srv.AddDocument("Doc", 10, 1)
	var ids []uint
	for i := 0; i < 3; i++ {
		ids = append(ids, srv.AddSummary(doc, pdfapi.StyleShort, pdfapi.LanguageEnglish, "text"))
	}
	svc := NewSummaryService(srv.Client(), 2)

	// 2페이지에 있던 가장 오래된 요약을 지우면 2페이지가 사라진다.
	res, view, err := svc.BulkDeleteAndRefresh(context.Background(), []uint{ids[0]}, Confirmed, ListSummariesInput{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)
	assert.Equal(t, 1, view.Window.Page)
	assert.Len(t, view.Items, 2)
}

func TestDeleteFailureNotice(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	svc := NewDocumentService(srv.Client(), 0)

	err := svc.Delete(context.Background(), 404, Confirmed)
	require.Error(t, err)
	n := Failure(FailedDeleteDocument, err)
	assert.Equal(t, LevelError, n.Level)
	assert.Equal(t, "Failed to delete document: PDF not found", n.Message)
}

func TestFailureNoticeForNonPDF(t *testing.T) {
	n := Failure(FailedUpload, fmt.Errorf("validate: %w", upload.ErrNotPDF))
	assert.Equal(t, LevelError, n.Level)
	assert.Equal(t, "Upload failed: "+MsgPDFOnly, n.Message)
}

func TestDocumentUpload(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	svc := NewDocumentService(srv.Client(), 0)

	path := filepath.Join(t.TempDir(), "Chapter 1.pdf")
	require.NoError(t, os.WriteFile(path, pdfapitest.MinimalPDF(2), 0o644))

	var progress []int
	card, err := svc.Upload(context.Background(), path, "", func(p int) { progress = append(progress, p) })
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1", card.Name)
	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])

	bad := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("plain text"), 0o644))
	_, err = svc.Upload(context.Background(), bad, "", nil)
	assert.ErrorIs(t, err, upload.ErrNotPDF)
	assert.Equal(t, 1, srv.CallCount("POST", "/pdf/upload"))
}

func TestDocumentDownload(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Notes", 10, 1)
	svc := NewDocumentService(srv.Client(), 0)

	file, err := svc.Download(context.Background(), id, "Notes")
	require.NoError(t, err)
	defer file.Body.Close()
	assert.Equal(t, "Notes.pdf", file.Filename)
	data, err := io.ReadAll(file.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	_, err = svc.Download(context.Background(), 999, "Missing")
	require.Error(t, err)
	assert.Equal(t, "PDF not found", pdfapi.Message(err))
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Notes.pdf", "Notes.pdf"},
		{"parent dir", "../escaped.pdf", "escaped.pdf"},
		{"nested", "a/b/../c.pdf", "c.pdf"},
		{"backslash", `..\..\win.pdf`, "win.pdf"},
		{"dot dot", "..", "document-7.pdf"},
		{"dot", ".", "document-7.pdf"},
		{"root", "/", "document-7.pdf"},
		{"empty", "", "document-7.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeFilename(tt.in, "document-7.pdf"))
		})
	}
}

func TestDocumentDownloadStripsDirectories(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("../x", 10, 1)
	svc := NewDocumentService(srv.Client(), 0)

	file, err := svc.Download(context.Background(), id, "../x")
	require.NoError(t, err)
	defer file.Body.Close()
	assert.Equal(t, "x.pdf", file.Filename)
}

func TestGenerateSummaryDefaults(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Doc", 10, 1)
	svc := NewDocumentService(srv.Client(), 0)

	res, err := svc.GenerateSummary(context.Background(), id, "", "")
	require.NoError(t, err)
	assert.Equal(t, "general", res.Style)
	assert.Equal(t, "english", res.Language)
}

func TestHistory(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Doc", 10, 1)
	for i := 0; i < 12; i++ {
		srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "v")
	}
	svc := NewDocumentService(srv.Client(), 0)

	view, err := svc.History(context.Background(), id, 2, "asc")
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, "Showing 11 to 12 of 12 summaries", view.Label)
	assert.Contains(t, srv.Calls()[0].Query, "order=asc")
}

func TestSelectableUsesSmallerPages(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	srv.AddDocument("Algebra", 10, 1)
	srv.AddDocument("Biology", 10, 1)
	svc := NewDocumentService(srv.Client(), 0)

	view, err := svc.Selectable(context.Background(), "bio", 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Biology", view.Items[0].Name)
	assert.Contains(t, srv.Calls()[0].Query, "itemsperpage=10")
	assert.Contains(t, srv.Calls()[0].Query, "search=bio")
}

func TestSummaryListFiltersAndStats(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Economics", 10, 1)
	srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "one two three four")
	srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageIndonesian, "satu dua")
	srv.AddSummary(id, pdfapi.StyleDetailed, pdfapi.LanguageEnglish, "a b c d e f")

	svc := NewSummaryService(srv.Client(), 0)

	view, err := svc.List(context.Background(), ListSummariesInput{Style: "all", Language: "all"})
	require.NoError(t, err)
	require.Len(t, view.Items, 3)
	assert.Equal(t, SummaryPageStats{Total: 3, English: 2, Indonesian: 1, AvgWords: 4}, view.Stats)
	assert.Equal(t, "Economics", view.Items[0].DocumentName)

	view, err = svc.List(context.Background(), ListSummariesInput{Style: "short"})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, SummaryPageStats{Total: 2, English: 1, Indonesian: 1, AvgWords: 3}, view.Stats)

	for _, c := range srv.Calls() {
		assert.NotContains(t, c.Query, "style=")
	}
}

func TestSummaryNameFallback(t *testing.T) {
	v := summaryView(pdfapi.Summary{ID: 1, PDFID: 42, Content: ""}, time.Now())
	assert.Equal(t, "PDF Document 42", v.DocumentName)
	assert.Equal(t, "No preview available", v.Preview)
	assert.Equal(t, 0, v.WordCount)
}

func TestSummaryDeleteAndBulk(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Doc", 10, 1)
	a := srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "a")
	b := srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "b")
	c := srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "c")
	svc := NewSummaryService(srv.Client(), 0)

	assert.ErrorIs(t, svc.Delete(context.Background(), a, Unconfirmed), ErrNotConfirmed)
	_, err := svc.BulkDelete(context.Background(), []uint{b, c}, Unconfirmed)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Empty(t, srv.Calls())

	require.NoError(t, svc.Delete(context.Background(), a, Confirmed))
	res, err := svc.BulkDelete(context.Background(), []uint{b, c}, Confirmed)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.DeletedCount)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSummaries)
}

func TestHomeStats(t *testing.T) {
	srv := pdfapitest.New()
	defer srv.Close()
	id := srv.AddDocument("Doc", 10, 1)
	srv.AddSummary(id, pdfapi.StyleShort, pdfapi.LanguageEnglish, "a")
	srv.AddDocument("Doc 2", 10, 1)

	svc := NewStatsService(srv.Client())
	stats, err := svc.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, HomeStats{TotalDocuments: 2, TotalSummaries: 1}, stats)

	health, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
}
