package pdfapi

import (
	"fmt"
	"strings"
	"time"
)

// Style 은 요약의 길이/깊이를 결정한다.
type Style string

const (
	StyleShort    Style = "short"
	StyleGeneral  Style = "general"
	StyleDetailed Style = "detailed"
)

var Styles = []Style{StyleShort, StyleGeneral, StyleDetailed}

func (s Style) Valid() bool {
	switch s {
	case StyleShort, StyleGeneral, StyleDetailed:
		return true
	}
	return false
}

// ParseStyle 은 대소문자를 무시하고 Style 로 변환한다.
func ParseStyle(v string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid summary style %q (want short, general or detailed)", v)
	}
	return s, nil
}

type Language string

const (
	LanguageEnglish    Language = "english"
	LanguageIndonesian Language = "indonesian"
)

var Languages = []Language{LanguageEnglish, LanguageIndonesian}

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageIndonesian
}

func ParseLanguage(v string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(v)))
	if !l.Valid() {
		return "", fmt.Errorf("invalid summary language %q (want english or indonesian)", v)
	}
	return l, nil
}

// Document 는 백엔드 GET /pdf/{id} 응답이다.
// Summary/Style/Language/SummaryTime 은 가장 최근 요약의 값이며 SummaryVersion 이 0 이면 비어 있다.
type Document struct {
	ID             uint      `json:"id"`
	Filename       string    `json:"filename"`
	FileSize       int64     `json:"file_size"`
	Title          string    `json:"title"`
	PageCount      int       `json:"page_count"`
	Summary        string    `json:"summary"`
	Style          string    `json:"style"`
	Language       string    `json:"language"`
	SummaryTime    float64   `json:"summary_time"`
	SummaryVersion int       `json:"summary_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Summaries      []Summary `json:"summaries"`
}

// DisplayName 은 제목이 없으면 파일명을 사용한다.
func (d Document) DisplayName() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Filename
}

func (d Document) HasSummaries() bool {
	return len(d.Summaries) > 0
}

type Summary struct {
	ID          uint          `json:"id"`
	Style       string        `json:"style"`
	Content     string        `json:"content"`
	PDFID       uint          `json:"pdf_id"`
	Language    string        `json:"language"`
	SummaryTime float64       `json:"summary_time"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	PDF         *DocumentInfo `json:"pdf,omitempty"`
}

// DocumentInfo 는 요약 응답에 포함되는 문서 기본 정보다.
type DocumentInfo struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Filename  string `json:"filename"`
	FileSize  int64  `json:"file_size"`
	PageCount int    `json:"page_count"`
}

// Page 는 모든 목록 API 가 돌려주는 페이지네이션 봉투다.
type Page[T any] struct {
	Data         []T   `json:"data"`
	Page         int   `json:"page"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type BulkDeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

type CreateDocumentRequest struct {
	Filename  string `json:"filename"`
	FileSize  int64  `json:"file_size"`
	Title     string `json:"title"`
	PageCount int    `json:"page_count"`
}

type SummarizeRequest struct {
	Style    Style    `json:"style"`
	Language Language `json:"language"`
}

// SummarizeResult 는 POST /pdf/{id}/summarize 의 응답이다.
// 백엔드는 요약이 끝날 때까지 응답을 블로킹한다.
type SummarizeResult struct {
	Title    string `json:"title"`
	Summary  struct {
		MainSummary string `json:"main_summary"`
		WordCount   int    `json:"word_count"`
		ReadingTime string `json:"reading_time"`
	} `json:"summary"`
	Language string `json:"language"`
	Style    string `json:"style"`
	FileInfo struct {
		OriginalFilename string  `json:"original_filename"`
		FileSize         int64   `json:"file_size"`
		FileSizeMB       float64 `json:"file_size_mb"`
	} `json:"file_info"`
	ProcessingInfo struct {
		ChunksProcessed       int     `json:"chunks_processed"`
		ChunkingUsed          bool    `json:"chunking_used"`
		ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	} `json:"processing_info"`
	Status string `json:"status"`
}

type SummaryStats struct {
	TotalSummaries int64            `json:"total_summaries"`
	ByStyle        map[string]int64 `json:"by_style"`
	ByLanguage     map[string]int64 `json:"by_language"`
	AvgSummaryTime float64          `json:"avg_summary_time"`
	TotalPDFs      int64            `json:"total_pdfs"`
}

type Pong struct {
	Message string `json:"message"`
}

type HealthStatus struct {
	Status         string `json:"status"`
	Database       string `json:"database"`
	TotalPDFs      int64  `json:"total_pdfs"`
	TotalSummaries int64  `json:"total_summaries"`
	Version        string `json:"version"`
	Error          string `json:"error,omitempty"`
}
