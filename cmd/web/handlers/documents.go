package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/services"
	"pdf-desk/cmd/internal/upload"
	"pdf-desk/cmd/web/dto"
)

const invalidDocumentID = "Invalid PDF ID"

// ListDocumentsHandler godoc
// @Summary      문서 목록
// @Description  업로드된 PDF 문서 목록을 페이지 단위로 조회한다.
// @Tags         documents
// @Param        page          query  int     false  "Page number (1-based)"
// @Param        itemsperpage  query  int     false  "Items per page (<=100)"
// @Param        sort          query  string  false  "Sort field"  default(created_at)
// @Param        order         query  string  false  "asc | desc"  default(desc)
// @Param        search        query  string  false  "Title/filename search"
// @Produce      json
// @Success      200  {object}  services.DocumentListView
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Router       /documents [get]
func ListDocumentsHandler(svc *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.List(c.Request.Context(), documentListInput(c))
		if err != nil {
			respondError(c, "list documents", err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func documentListInput(c *gin.Context) services.ListDocumentsInput {
	return services.ListDocumentsInput{
		Page:         queryInt(c, "page", 1),
		ItemsPerPage: queryInt(c, "itemsperpage", 0),
		SortBy:       c.Query("sort"),
		Order:        c.Query("order"),
		Search:       c.Query("search"),
	}
}

// GetDocumentHandler godoc
// @Summary      문서 상세
// @Description  문서와 요약 목록, 최신 요약(summary_version > 0 인 경우)을 조회한다.
// @Tags         documents
// @Param        id   path  int  true  "PDF ID"
// @Produce      json
// @Success      200  {object}  services.DocumentDetailView
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /documents/{id} [get]
func GetDocumentHandler(svc *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id", invalidDocumentID)
		if !ok {
			return
		}
		view, err := svc.Detail(c.Request.Context(), id)
		if err != nil {
			respondError(c, "get document", err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// UploadDocumentHandler godoc
// @Summary      PDF 업로드
// @Description  multipart(file, title?) 로 받은 PDF 를 검증 후 백엔드로 전달한다.
// @Tags         documents
// @Accept       mpfd
// @Produce      json
// @Param        file   formData  file    true   "PDF file"
// @Param        title  formData  string  false  "Title (defaults to filename)"
// @Success      201  {object}  dto.NoticeResponseDTO[services.DocumentCard]
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      413  {object}  dto.ErrorResponseDTO
// @Router       /documents [post]
func UploadDocumentHandler(svc *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "File is required")
			return
		}
		if fh.Size > upload.MaxFileSize {
			respondError(c, "upload document", upload.ErrTooLarge)
			return
		}
		f, err := fh.Open()
		if err != nil {
			badRequest(c, "Failed to read uploaded file")
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, upload.MaxFileSize+1))
		if err != nil {
			badRequest(c, "Failed to read uploaded file")
			return
		}

		card, err := svc.UploadBytes(c.Request.Context(), fh.Filename, data, c.PostForm("title"))
		if err != nil {
			respondError(c, "upload document", err)
			return
		}
		c.JSON(http.StatusCreated, dto.NoticeResponseDTO[services.DocumentCard]{
			Data:   card,
			Notice: notice(services.Success(services.MsgUploaded)),
		})
	}
}

// DeleteDocumentHandler godoc
// @Summary      문서 삭제
// @Description  confirm=true 가 있어야 삭제한다. 없으면 428 을 돌려주고 백엔드를 호출하지 않는다.
// @Description  page 를 주면 같은 조건으로 목록을 다시 조회해 list 에 담는다.
// @Tags         documents
// @Param        id            path   int     true   "PDF ID"
// @Param        confirm       query  bool    true   "Confirmation"
// @Param        page          query  int     false  "Current list page to refresh"
// @Param        itemsperpage  query  int     false  "Items per page (<=100)"
// @Param        sort          query  string  false  "Sort field"
// @Param        order         query  string  false  "asc | desc"
// @Param        search        query  string  false  "Title/filename search"
// @Produce      json
// @Success      200  {object}  dto.DeleteResponseDTO[services.DocumentListView]
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      428  {object}  dto.ErrorResponseDTO
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(svc *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id", invalidDocumentID)
		if !ok {
			return
		}
		resp := dto.DeleteResponseDTO[services.DocumentListView]{Message: "PDF deleted successfully"}
		if _, refresh := c.GetQuery("page"); refresh {
			view, err := svc.DeleteAndRefresh(c.Request.Context(), id, confirmation(c), documentListInput(c))
			if err != nil {
				respondError(c, "delete document", err)
				return
			}
			resp.List = &view
		} else if err := svc.Delete(c.Request.Context(), id, confirmation(c)); err != nil {
			respondError(c, "delete document", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// DownloadDocumentHandler godoc
// @Summary      문서 다운로드
// @Description  원본 PDF 를 스트리밍한다. name 은 백엔드가 파일명을 주지 않을 때 사용된다.
// @Tags         documents
// @Param        id    path   int     true   "PDF ID"
// @Param        name  query  string  false  "Fallback file name (without .pdf)"
// @Produce      application/pdf
// @Success      200
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /documents/{id}/download [get]
func DownloadDocumentHandler(svc *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id", invalidDocumentID)
		if !ok {
			return
		}
		file, err := svc.Download(c.Request.Context(), id, c.Query("name"))
		if err != nil {
			respondError(c, "download document", err)
			return
		}
		defer file.Body.Close()

		c.DataFromReader(http.StatusOK, file.Size, "application/pdf", file.Body, map[string]string{
			"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Filename),
		})
	}
}

// GenerateSummaryHandler godoc
// @Summary      요약 생성
// @Description  AI 요약을 생성한다. 완료될 때까지 응답이 블로킹된다.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  int                            true   "PDF ID"
// @Param        body  body  dto.GenerateSummaryRequestDTO  false  "style/language"
// @Success      200  {object}  dto.NoticeResponseDTO[pdfapi.SummarizeResult]
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /documents/{id}/summaries [post]
func GenerateSummaryHandler(svc *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id", invalidDocumentID)
		if !ok {
			return
		}
		var req dto.GenerateSummaryRequestDTO
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, "Invalid request body")
				return
			}
		}

		var style pdfapi.Style
		var lang pdfapi.Language
		var err error
		if req.Style != "" {
			if style, err = pdfapi.ParseStyle(req.Style); err != nil {
				badRequest(c, "Invalid summary style")
				return
			}
		}
		if req.Language != "" {
			if lang, err = pdfapi.ParseLanguage(req.Language); err != nil {
				badRequest(c, "Invalid summary language")
				return
			}
		}

		res, err := svc.GenerateSummary(c.Request.Context(), id, style, lang)
		if err != nil {
			respondError(c, "generate summary", err)
			return
		}
		c.JSON(http.StatusOK, dto.NoticeResponseDTO[pdfapi.SummarizeResult]{
			Data:   res,
			Notice: notice(services.Success(services.MsgSummaryGenerated)),
		})
	}
}

// DocumentSummariesHandler godoc
// @Summary      요약 이력
// @Description  한 문서의 요약 이력을 10개씩 조회한다.
// @Tags         documents
// @Param        id     path   int     true   "PDF ID"
// @Param        page   query  int     false  "Page number (1-based)"
// @Param        order  query  string  false  "asc | desc"  default(desc)
// @Produce      json
// @Success      200  {object}  services.ListView[services.SummaryView]
// @Router       /documents/{id}/summaries [get]
func DocumentSummariesHandler(svc *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id", invalidDocumentID)
		if !ok {
			return
		}
		view, err := svc.History(c.Request.Context(), id, queryInt(c, "page", 1), c.Query("order"))
		if err != nil {
			respondError(c, "document summaries", err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// SelectDocumentsHandler godoc
// @Summary      학습용 문서 선택 목록
// @Tags         documents
// @Param        search  query  string  false  "Title/filename search"
// @Param        page    query  int     false  "Page number (1-based)"
// @Produce      json
// @Success      200  {object}  services.DocumentListView
// @Router       /documents/select [get]
func SelectDocumentsHandler(svc *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Selectable(c.Request.Context(), c.Query("search"), queryInt(c, "page", 1))
		if err != nil {
			respondError(c, "select documents", err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
