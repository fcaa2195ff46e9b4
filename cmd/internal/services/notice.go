package services

import (
	"errors"

	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/upload"
)

// ErrNotConfirmed 는 삭제 같은 파괴적 작업을 확인 없이 호출했을 때 반환된다.
// 이 경우 백엔드 호출은 일어나지 않는다.
var ErrNotConfirmed = errors.New("operation requires confirmation")

// Confirmation 은 사용자가 파괴적 작업을 승인했는지 여부다.
type Confirmation bool

const (
	Confirmed   Confirmation = true
	Unconfirmed Confirmation = false
)

// 확인 문구
const (
	PromptDeleteDocument  = "Are you sure you want to delete this document?"
	PromptDeleteSummary   = "Are you sure you want to delete this summary?"
	PromptDeleteSummaries = "Are you sure you want to delete the selected summaries?"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice 는 작업 결과를 사용자에게 알리는 짧은 메시지다.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// 알림 접두어/문구
const (
	FailedDeleteDocument   = "Failed to delete document"
	FailedDeleteSummary    = "Failed to delete summary"
	FailedDownloadDocument = "Failed to download document"
	FailedUpload           = "Upload failed"
	FailedGenerateSummary  = "Failed to generate summary"
	FailedChat             = "Failed to get a reply"

	MsgUploaded         = "File uploaded successfully!"
	MsgSummaryGenerated = "Summary generated successfully!"
	MsgPDFOnly          = "Please upload a PDF file only."
)

func Success(msg string) Notice {
	return Notice{Level: LevelSuccess, Message: msg}
}

func Info(msg string) Notice {
	return Notice{Level: LevelInfo, Message: msg}
}

// Failure 는 "Failed to delete document: PDF not found" 형태의 에러 알림이다.
// PDF 가 아닌 파일은 MsgPDFOnly 로 안내한다.
func Failure(prefix string, err error) Notice {
	msg := pdfapi.Message(err)
	if errors.Is(err, upload.ErrNotPDF) {
		msg = MsgPDFOnly
	}
	return Notice{Level: LevelError, Message: prefix + ": " + msg}
}
