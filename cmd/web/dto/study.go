package dto

import (
	"pdf-desk/cmd/internal/services"
	"pdf-desk/cmd/internal/study"
)

// StudySessionDTO 는 학습 세션의 현재 상태다.
type StudySessionDTO struct {
	ID        string                  `json:"id"`
	Documents []services.DocumentCard `json:"documents"`
	Missing   []services.DocumentCard `json:"missing_summaries"`
	Messages  []study.Message         `json:"messages"`
	Sending   bool                    `json:"sending"`
}

type AddStudyDocumentRequestDTO struct {
	DocumentID uint `json:"document_id" binding:"required"`
}

type SendStudyMessageRequestDTO struct {
	Message string `json:"message"`
}

// SendStudyMessageResponseDTO 는 AI 응답 메시지와 갱신된 세션이다.
// 채팅 호출이 실패하면 Reply 는 대체 메시지이고 Notice 에 실패 알림이 담긴다.
type SendStudyMessageResponseDTO struct {
	Reply   study.Message   `json:"reply"`
	Session StudySessionDTO `json:"session"`
	Notice  *NoticeDTO      `json:"notice,omitempty"`
}

// StudyRemediationDTO 는 요약이 없어 대화할 수 없는 문서 목록이다 (409 응답 본문).
type StudyRemediationDTO struct {
	Error     string                  `json:"error" example:"summaries_required"`
	Message   string                  `json:"message"`
	Documents []services.DocumentCard `json:"documents"`
}
