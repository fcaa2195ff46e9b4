package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdf-desk/cmd/internal/services"
	"pdf-desk/cmd/web/dto"
)

const invalidSummaryID = "Invalid summary ID"

// ListSummariesHandler godoc
// @Summary      요약 목록
// @Description  요약 목록을 조회한다. style/language 는 받은 페이지 안에서만 거르며 "all" 은 필터 없음이다.
// @Tags         summaries
// @Param        page          query  int     false  "Page number (1-based)"
// @Param        itemsperpage  query  int     false  "Items per page (<=100)"
// @Param        sort          query  string  false  "Sort field"  default(created_at)
// @Param        order         query  string  false  "asc | desc"  default(desc)
// @Param        search        query  string  false  "Content search"
// @Param        style         query  string  false  "all | short | general | detailed"
// @Param        language      query  string  false  "all | english | indonesian"
// @Produce      json
// @Success      200  {object}  services.SummaryListView
// @Router       /summaries [get]
func ListSummariesHandler(svc *services.SummaryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.List(c.Request.Context(), summaryListInput(c))
		if err != nil {
			respondError(c, "list summaries", err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func summaryListInput(c *gin.Context) services.ListSummariesInput {
	return services.ListSummariesInput{
		Page:         queryInt(c, "page", 1),
		ItemsPerPage: queryInt(c, "itemsperpage", 0),
		SortBy:       c.Query("sort"),
		Order:        c.Query("order"),
		Search:       c.Query("search"),
		Style:        c.Query("style"),
		Language:     c.Query("language"),
	}
}

// SummaryStatsHandler godoc
// @Summary      요약 통계
// @Tags         summaries
// @Produce      json
// @Success      200  {object}  pdfapi.SummaryStats
// @Router       /summaries/stats [get]
func SummaryStatsHandler(svc *services.SummaryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			respondError(c, "summary stats", err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// GetSummaryHandler godoc
// @Summary      요약 상세
// @Tags         summaries
// @Param        id  path  int  true  "Summary ID"
// @Produce      json
// @Success      200  {object}  services.SummaryView
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /summaries/{id} [get]
func GetSummaryHandler(svc *services.SummaryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id", invalidSummaryID)
		if !ok {
			return
		}
		view, err := svc.Detail(c.Request.Context(), id)
		if err != nil {
			respondError(c, "get summary", err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// DeleteSummaryHandler godoc
// @Summary      요약 삭제
// @Description  page 를 주면 같은 조건(style/language 포함)으로 목록을 다시 조회해 list 에 담는다.
// @Tags         summaries
// @Param        id       path   int     true   "Summary ID"
// @Param        confirm  query  bool    true   "Confirmation"
// @Param        page     query  int     false  "Current list page to refresh"
// @Param        search   query  string  false  "Content search"
// @Param        style    query  string  false  "all | short | general | detailed"
// @Param        language query  string  false  "all | english | indonesian"
// @Produce      json
// @Success      200  {object}  dto.DeleteResponseDTO[services.SummaryListView]
// @Failure      428  {object}  dto.ErrorResponseDTO
// @Router       /summaries/{id} [delete]
func DeleteSummaryHandler(svc *services.SummaryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id", invalidSummaryID)
		if !ok {
			return
		}
		resp := dto.DeleteResponseDTO[services.SummaryListView]{Message: "Summary deleted successfully"}
		if _, refresh := c.GetQuery("page"); refresh {
			view, err := svc.DeleteAndRefresh(c.Request.Context(), id, confirmation(c), summaryListInput(c))
			if err != nil {
				respondError(c, "delete summary", err)
				return
			}
			resp.List = &view
		} else if err := svc.Delete(c.Request.Context(), id, confirmation(c)); err != nil {
			respondError(c, "delete summary", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// BulkDeleteSummariesHandler godoc
// @Summary      요약 일괄 삭제
// @Description  최대 100개의 요약을 삭제한다. confirm=true 필요. page 를 주면 목록을 다시 조회해 list 에 담는다.
// @Tags         summaries
// @Accept       json
// @Produce      json
// @Param        confirm  query  bool                               true   "Confirmation"
// @Param        page     query  int                                false  "Current list page to refresh"
// @Param        body     body   dto.BulkDeleteSummariesRequestDTO  true   "ids"
// @Success      200  {object}  dto.DeleteResponseDTO[services.SummaryListView]
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      428  {object}  dto.ErrorResponseDTO
// @Router       /summaries [delete]
func BulkDeleteSummariesHandler(svc *services.SummaryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.BulkDeleteSummariesRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		var resp dto.DeleteResponseDTO[services.SummaryListView]
		if _, refresh := c.GetQuery("page"); refresh {
			res, view, err := svc.BulkDeleteAndRefresh(c.Request.Context(), req.IDs, confirmation(c), summaryListInput(c))
			if err != nil {
				respondError(c, "bulk delete summaries", err)
				return
			}
			resp = dto.DeleteResponseDTO[services.SummaryListView]{Message: res.Message, DeletedCount: res.DeletedCount, List: &view}
		} else {
			res, err := svc.BulkDelete(c.Request.Context(), req.IDs, confirmation(c))
			if err != nil {
				respondError(c, "bulk delete summaries", err)
				return
			}
			resp = dto.DeleteResponseDTO[services.SummaryListView]{Message: res.Message, DeletedCount: res.DeletedCount}
		}
		c.JSON(http.StatusOK, resp)
	}
}
