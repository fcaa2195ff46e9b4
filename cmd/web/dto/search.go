package dto

import "pdf-desk/cmd/internal/services"

const (
	SearchKindDocuments = "documents"
	SearchKindSummaries = "summaries"
)

// LiveSearchRequestDTO 는 웹소켓으로 들어오는 검색 입력이다.
// 검색어가 바뀌면 디바운스 후 1페이지부터 조회하고, 페이지만 바뀌면 바로 조회한다.
type LiveSearchRequestDTO struct {
	Kind     string `json:"kind" example:"documents"`
	Query    string `json:"query"`
	Page     int    `json:"page"`
	Style    string `json:"style,omitempty"`
	Language string `json:"language,omitempty"`
}

// LiveSearchResponseDTO 는 가장 최근 입력에 대한 결과다. Seq 는 입력 순서를 나타낸다.
type LiveSearchResponseDTO struct {
	Seq       uint64                     `json:"seq"`
	Kind      string                     `json:"kind"`
	Query     string                     `json:"query"`
	Documents *services.DocumentListView `json:"documents,omitempty"`
	Summaries *services.SummaryListView  `json:"summaries,omitempty"`
	Error     *ErrorResponseDTO          `json:"error,omitempty"`
}
