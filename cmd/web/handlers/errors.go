package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pdf-desk/cmd/internal/logger"
	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/services"
	"pdf-desk/cmd/internal/study"
	"pdf-desk/cmd/internal/trace"
	"pdf-desk/cmd/internal/upload"
	"pdf-desk/cmd/web/dto"
)

// errorStatus 는 에러를 (HTTP 상태, 에러 코드, 사용자 메시지) 로 바꾼다.
// 백엔드가 돌려준 상태 코드와 메시지는 그대로 전달한다.
func errorStatus(err error) (int, string, string) {
	var apiErr *pdfapi.APIError
	switch {
	case errors.As(err, &apiErr):
		code := apiErr.Code
		if code == "" {
			code = codeForStatus(apiErr.StatusCode)
		}
		return apiErr.StatusCode, code, apiErr.Message
	case errors.Is(err, services.ErrNotConfirmed):
		return http.StatusPreconditionRequired, "confirmation_required", "Confirmation required: pass confirm=true"
	case errors.Is(err, pdfapi.ErrInvalidBulkDelete):
		return http.StatusBadRequest, "invalid_request", "Provide between 1 and 100 summary ids"
	case errors.Is(err, upload.ErrNotPDF):
		return http.StatusBadRequest, "invalid_file", services.MsgPDFOnly
	case errors.Is(err, upload.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "file_too_large", err.Error()
	case errors.Is(err, upload.ErrEmptyFile), errors.Is(err, upload.ErrUnreadablePDF):
		return http.StatusBadRequest, "invalid_file", err.Error()
	case errors.Is(err, study.ErrNothingToSend):
		return http.StatusBadRequest, "invalid_request", "Message is empty or no documents are selected"
	case errors.Is(err, study.ErrBusy):
		return http.StatusConflict, "busy", "A message is already being sent"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "backend_timeout", "Network error"
	}
	return http.StatusBadGateway, "backend_unavailable", "Network error"
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	}
	if status >= 500 {
		return "backend_error"
	}
	return "request_failed"
}

// respondError 는 에러를 공통 형식으로 응답하고 로그를 남긴다.
func respondError(c *gin.Context, op string, err error) {
	status, code, msg := errorStatus(err)
	fields := logger.Fields{
		"op":         op,
		"status":     status,
		"error":      err.Error(),
		"request_id": trace.RequestID(c.Request.Context()),
	}
	if status >= 500 {
		logger.ErrorWithFields("request failed", fields)
	} else {
		logger.DebugWithFields("request rejected", fields)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.ErrorResponseDTO{Error: code, Message: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request", Message: msg})
}

// uintParam 은 경로 파라미터를 양의 정수 id 로 읽는다. 실패하면 400 을 응답하고 false 를 돌려준다.
func uintParam(c *gin.Context, name, invalidMsg string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		badRequest(c, invalidMsg)
		return 0, false
	}
	return uint(n), true
}

func queryInt(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return n
}

// confirmation 은 ?confirm=true 를 확인 값으로 읽는다.
func confirmation(c *gin.Context) services.Confirmation {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return services.Confirmation(ok)
}

func notice(n services.Notice) dto.NoticeDTO {
	return dto.NoticeDTO{Level: string(n.Level), Message: n.Message}
}
