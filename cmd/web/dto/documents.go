package dto

// GenerateSummaryRequestDTO 는 요약 생성 요청이다. 비어 있으면 general/english 가 쓰인다.
type GenerateSummaryRequestDTO struct {
	Style    string `json:"style" example:"general"`
	Language string `json:"language" example:"english"`
}

// BulkDeleteSummariesRequestDTO 는 요약 일괄 삭제 요청이다 (1~100개).
type BulkDeleteSummariesRequestDTO struct {
	IDs []uint `json:"ids" binding:"required"`
}
