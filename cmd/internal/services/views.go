package services

import (
	"fmt"
	"time"

	"pdf-desk/cmd/internal/format"
	"pdf-desk/cmd/internal/pagination"
	"pdf-desk/cmd/internal/pdfapi"
)

// DocumentCard 는 문서 목록/상세 화면의 문서 한 건이다.
type DocumentCard struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Filename     string    `json:"filename"`
	Size         string    `json:"size"`
	FileSize     int64     `json:"file_size"`
	Pages        int       `json:"pages"`
	UploadedAt   time.Time `json:"uploaded_at"`
	UploadedAgo  string    `json:"uploaded_ago"`
	UpdatedAt    time.Time `json:"updated_at"`
	SummaryCount int       `json:"summary_count"`
	Version      int       `json:"summary_version"`
}

// SummaryView 는 요약 한 건의 화면 표현이다.
type SummaryView struct {
	ID           uint      `json:"id"`
	DocumentID   uint      `json:"document_id"`
	DocumentName string    `json:"document_name"`
	Filename     string    `json:"document_filename"`
	Style        string    `json:"style"`
	Language     string    `json:"language"`
	Content      string    `json:"content"`
	Preview      string    `json:"preview"`
	WordCount    int       `json:"word_count"`
	SummaryTime  float64   `json:"summary_time"`
	Duration     string    `json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedAgo   string    `json:"created_ago"`
}

// LatestSummary 는 문서 레코드에 비정규화된 최신 요약이다.
type LatestSummary struct {
	Content     string  `json:"content"`
	Style       string  `json:"style"`
	Language    string  `json:"language"`
	SummaryTime float64 `json:"summary_time"`
	Version     int     `json:"version"`
}

// ListView 는 페이지 단위 목록 화면 공통 구조다.
type ListView[T any] struct {
	Items  []T               `json:"items"`
	Window pagination.Window `json:"pagination"`
	Label  string            `json:"label"`
	Pages  []int             `json:"pages"`
}

type DocumentListView = ListView[DocumentCard]

type DocumentDetailView struct {
	Document      DocumentCard   `json:"document"`
	Summaries     []SummaryView  `json:"summaries"`
	LatestSummary *LatestSummary `json:"latest_summary,omitempty"`
}

// SummaryPageStats 는 현재 페이지(필터 적용 후) 기준 통계다.
type SummaryPageStats struct {
	Total      int `json:"total"`
	English    int `json:"english"`
	Indonesian int `json:"indonesian"`
	AvgWords   int `json:"avg_words"`
}

type SummaryListView struct {
	ListView[SummaryView]
	Stats SummaryPageStats `json:"stats"`
}

type HomeStats struct {
	TotalDocuments int64 `json:"total_documents"`
	TotalSummaries int64 `json:"total_summaries"`
}

func newListView[T any](items []T, w pagination.Window, noun string) ListView[T] {
	if items == nil {
		items = []T{}
	}
	return ListView[T]{
		Items:  items,
		Window: w,
		Label:  w.Label(noun),
		Pages:  w.Pages(pagination.MaxButtons),
	}
}

// NewDocumentCard 는 현재 시각 기준의 문서 카드다.
func NewDocumentCard(d pdfapi.Document) DocumentCard {
	return documentCard(d, time.Now())
}

func documentCard(d pdfapi.Document, now time.Time) DocumentCard {
	return DocumentCard{
		ID:           d.ID,
		Name:         d.DisplayName(),
		Filename:     d.Filename,
		Size:         format.FileSize(d.FileSize),
		FileSize:     d.FileSize,
		Pages:        d.PageCount,
		UploadedAt:   d.CreatedAt,
		UploadedAgo:  format.RelativeDate(d.CreatedAt, now),
		UpdatedAt:    d.UpdatedAt,
		SummaryCount: len(d.Summaries),
		Version:      d.SummaryVersion,
	}
}

func summaryView(s pdfapi.Summary, now time.Time) SummaryView {
	v := SummaryView{
		ID:           s.ID,
		DocumentID:   s.PDFID,
		DocumentName: fmt.Sprintf("PDF Document %d", s.PDFID),
		Filename:     "Unknown",
		Style:        s.Style,
		Language:     s.Language,
		Content:      s.Content,
		Preview:      format.Preview(s.Content, format.PreviewLength),
		WordCount:    format.WordCount(s.Content),
		SummaryTime:  s.SummaryTime,
		Duration:     format.Duration(s.SummaryTime),
		CreatedAt:    s.CreatedAt,
		CreatedAgo:   format.RelativeDate(s.CreatedAt, now),
	}
	if s.PDF != nil {
		if s.PDF.Title != "" {
			v.DocumentName = s.PDF.Title
		}
		if s.PDF.Filename != "" {
			v.Filename = s.PDF.Filename
		}
	}
	return v
}

// latestSummary 는 summary_version 이 0 보다 클 때만 최신 요약을 만든다.
func latestSummary(d pdfapi.Document) *LatestSummary {
	if d.SummaryVersion <= 0 {
		return nil
	}
	return &LatestSummary{
		Content:     d.Summary,
		Style:       d.Style,
		Language:    d.Language,
		SummaryTime: d.SummaryTime,
		Version:     d.SummaryVersion,
	}
}
