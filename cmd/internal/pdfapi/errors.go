package pdfapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrNotFound = errors.New("resource not found")

const (
	fallbackNetworkMessage  = "Network error"
	fallbackDownloadMessage = "Download failed"
)

// APIError 는 백엔드가 2xx 가 아닌 응답을 돌려준 경우다.
// Message 는 사용자에게 그대로 보여줄 수 있는 문장이다.
type APIError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is 는 404 응답을 ErrNotFound 와 동일하게 취급한다.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// errorBody 는 백엔드 에러 응답 형식이다. 예: {"error":"not_found","message":"PDF not found"}
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodeError 는 실패 응답을 APIError 로 정규화한다.
// 바디가 JSON 이 아니면 fallback 메시지를, message 가 비어 있으면 상태 코드 메시지를 쓴다.
func decodeError(op string, resp *http.Response, fallback string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return errorFromBody(op, resp.StatusCode, raw, fallback)
}

const maxErrorBody = 64 * 1024

func errorFromBody(op string, status int, raw []byte, fallback string) *APIError {
	apiErr := &APIError{Op: op, StatusCode: status}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = fallback
		return apiErr
	}
	apiErr.Code = body.Error
	apiErr.Message = body.Message
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return apiErr
}

// Message 는 에러에서 사용자용 메시지를 꺼낸다.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
