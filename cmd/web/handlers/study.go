package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/services"
	"pdf-desk/cmd/internal/study"
	"pdf-desk/cmd/web/dto"
)

const (
	msgSessionNotFound   = "Study session not found"
	msgSummariesRequired = "Generate a summary for these documents before chatting about them"
)

func cards(docs []pdfapi.Document) []services.DocumentCard {
	out := make([]services.DocumentCard, 0, len(docs))
	for _, d := range docs {
		out = append(out, services.NewDocumentCard(d))
	}
	return out
}

func sessionDTO(id string, s *study.Session) dto.StudySessionDTO {
	msgs := s.Messages()
	if msgs == nil {
		msgs = []study.Message{}
	}
	return dto.StudySessionDTO{
		ID:        id,
		Documents: cards(s.Selected()),
		Missing:   cards(s.Missing()),
		Messages:  msgs,
		Sending:   s.Sending(),
	}
}

// lookupSession 은 :sid 세션을 찾는다. 없으면 404 를 응답한다.
func lookupSession(c *gin.Context, store *study.Store) (string, *study.Session, bool) {
	sid := c.Param("sid")
	sess, ok := store.Get(sid)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "not_found", Message: msgSessionNotFound})
		return "", nil, false
	}
	return sid, sess, true
}

func remediation(c *gin.Context, docs []pdfapi.Document) {
	c.AbortWithStatusJSON(http.StatusConflict, dto.StudyRemediationDTO{
		Error:     "summaries_required",
		Message:   msgSummariesRequired,
		Documents: cards(docs),
	})
}

// CreateStudySessionHandler godoc
// @Summary      학습 세션 생성
// @Tags         study
// @Produce      json
// @Success      201  {object}  dto.StudySessionDTO
// @Router       /study/sessions [post]
func CreateStudySessionHandler(store *study.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, sess := store.Create()
		c.JSON(http.StatusCreated, sessionDTO(id, sess))
	}
}

// GetStudySessionHandler godoc
// @Summary      학습 세션 조회
// @Tags         study
// @Param        sid  path  string  true  "Session ID"
// @Produce      json
// @Success      200  {object}  dto.StudySessionDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /study/sessions/{sid} [get]
func GetStudySessionHandler(store *study.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, sess, ok := lookupSession(c, store)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, sessionDTO(sid, sess))
	}
}

// DeleteStudySessionHandler godoc
// @Summary      학습 세션 삭제
// @Tags         study
// @Param        sid  path  string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /study/sessions/{sid} [delete]
func DeleteStudySessionHandler(store *study.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Delete(c.Param("sid")) {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "not_found", Message: msgSessionNotFound})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// AddStudyDocumentHandler godoc
// @Summary      학습 범위에 문서 추가
// @Description  요약이 없는 문서는 추가되지 않고 409 와 함께 요약 생성이 필요한 문서를 돌려준다.
// @Tags         study
// @Accept       json
// @Produce      json
// @Param        sid   path  string                          true  "Session ID"
// @Param        body  body  dto.AddStudyDocumentRequestDTO  true  "document"
// @Success      200  {object}  dto.StudySessionDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.StudyRemediationDTO
// @Router       /study/sessions/{sid}/documents [post]
func AddStudyDocumentHandler(store *study.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, sess, ok := lookupSession(c, store)
		if !ok {
			return
		}
		var req dto.AddStudyDocumentRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "document_id is required")
			return
		}

		err := sess.Add(c.Request.Context(), pdfapi.Document{ID: req.DocumentID})
		var needs *study.NeedsSummaryError
		switch {
		case errors.As(err, &needs):
			remediation(c, []pdfapi.Document{needs.Document})
			return
		case err != nil:
			respondError(c, "add study document", err)
			return
		}
		c.JSON(http.StatusOK, sessionDTO(sid, sess))
	}
}

// RefreshStudyDocumentHandler godoc
// @Summary      학습 문서 갱신
// @Description  요약을 생성한 뒤 문서를 다시 조회해 선택 목록에 반영한다.
// @Tags         study
// @Param        sid  path  string  true  "Session ID"
// @Param        id   path  int     true  "PDF ID"
// @Produce      json
// @Success      200  {object}  dto.StudySessionDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /study/sessions/{sid}/documents/{id} [put]
func RefreshStudyDocumentHandler(store *study.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, sess, ok := lookupSession(c, store)
		if !ok {
			return
		}
		id, ok := uintParam(c, "id", invalidDocumentID)
		if !ok {
			return
		}
		if _, err := sess.Refresh(c.Request.Context(), id); err != nil {
			respondError(c, "refresh study document", err)
			return
		}
		c.JSON(http.StatusOK, sessionDTO(sid, sess))
	}
}

// RemoveStudyDocumentHandler godoc
// @Summary      학습 범위에서 문서 제거
// @Tags         study
// @Param        sid  path  string  true  "Session ID"
// @Param        id   path  int     true  "PDF ID"
// @Produce      json
// @Success      200  {object}  dto.StudySessionDTO
// @Router       /study/sessions/{sid}/documents/{id} [delete]
func RemoveStudyDocumentHandler(store *study.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, sess, ok := lookupSession(c, store)
		if !ok {
			return
		}
		id, ok := uintParam(c, "id", invalidDocumentID)
		if !ok {
			return
		}
		sess.Remove(id)
		c.JSON(http.StatusOK, sessionDTO(sid, sess))
	}
}

// SendStudyMessageHandler godoc
// @Summary      학습 채팅 전송
// @Description  선택 문서 범위로 AI 에게 질문한다. 채팅 호출이 실패해도 대체 응답과 실패 알림을 200 으로 돌려준다.
// @Tags         study
// @Accept       json
// @Produce      json
// @Param        sid   path  string                          true  "Session ID"
// @Param        body  body  dto.SendStudyMessageRequestDTO  true  "message"
// @Success      200  {object}  dto.SendStudyMessageResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.StudyRemediationDTO
// @Router       /study/sessions/{sid}/messages [post]
func SendStudyMessageHandler(store *study.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, sess, ok := lookupSession(c, store)
		if !ok {
			return
		}
		var req dto.SendStudyMessageRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}

		reply, err := sess.Send(c.Request.Context(), req.Message)
		var missing *study.MissingSummariesError
		switch {
		case errors.As(err, &missing):
			remediation(c, missing.Documents)
			return
		case errors.Is(err, study.ErrNothingToSend), errors.Is(err, study.ErrBusy):
			respondError(c, "send study message", err)
			return
		}

		resp := dto.SendStudyMessageResponseDTO{Reply: reply, Session: sessionDTO(sid, sess)}
		if err != nil {
			n := notice(services.Failure(services.FailedChat, err))
			resp.Notice = &n
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ResetStudyMessagesHandler godoc
// @Summary      대화 초기화
// @Description  대화 내용만 지우고 선택 문서는 유지한다.
// @Tags         study
// @Param        sid  path  string  true  "Session ID"
// @Produce      json
// @Success      200  {object}  dto.StudySessionDTO
// @Router       /study/sessions/{sid}/messages [delete]
func ResetStudyMessagesHandler(store *study.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, sess, ok := lookupSession(c, store)
		if !ok {
			return
		}
		sess.Reset()
		c.JSON(http.StatusOK, sessionDTO(sid, sess))
	}
}
