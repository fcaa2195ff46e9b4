package handlers

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pdf-desk/cmd/internal/logger"
	"pdf-desk/cmd/internal/search"
	"pdf-desk/cmd/internal/services"
	"pdf-desk/cmd/web/dto"
)

const liveSearchReadLimit = 16 * 1024

// LiveSearchConfig 는 실시간 검색 웹소켓 설정이다.
type LiveSearchConfig struct {
	Delay          time.Duration
	AllowedOrigins []string
}

func (cfg LiveSearchConfig) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(cfg.AllowedOrigins) == 0 {
				return true
			}
			return slices.Contains(cfg.AllowedOrigins, "*") || slices.Contains(cfg.AllowedOrigins, origin)
		},
	}
}

// LiveSearchHandler godoc
// @Summary      실시간 검색 (websocket)
// @Description  dto.LiveSearchRequestDTO 를 보내면 검색어 입력은 디바운스 후, 페이지 이동과 검색어 없는 첫 요청은 즉시 조회해
// @Description  가장 최근 입력에 대한 dto.LiveSearchResponseDTO 만 돌려준다.
// @Tags         search
// @Success      101
// @Router       /search/live [get]
func LiveSearchHandler(docs *services.DocumentService, sums *services.SummaryService, cfg LiveSearchConfig) gin.HandlerFunc {
	upgrader := cfg.upgrader()

	var fetch search.FetchFunc[dto.LiveSearchRequestDTO, dto.LiveSearchResponseDTO] = func(ctx context.Context, q dto.LiveSearchRequestDTO) (dto.LiveSearchResponseDTO, error) {
		resp := dto.LiveSearchResponseDTO{Kind: q.Kind, Query: q.Query}
		switch q.Kind {
		case dto.SearchKindSummaries:
			view, err := sums.List(ctx, services.ListSummariesInput{
				Page:     q.Page,
				Search:   q.Query,
				Style:    q.Style,
				Language: q.Language,
			})
			if err != nil {
				return resp, err
			}
			resp.Summaries = &view
		default:
			view, err := docs.List(ctx, services.ListDocumentsInput{Page: q.Page, Search: q.Query})
			if err != nil {
				return resp, err
			}
			resp.Documents = &view
		}
		return resp, nil
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WarnWithFields("live search upgrade failed", logger.Fields{"error": err.Error()})
			return
		}
		defer conn.Close()
		conn.SetReadLimit(liveSearchReadLimit)

		var writeMu sync.Mutex
		write := func(v dto.LiveSearchResponseDTO) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(v); err != nil {
				logger.DebugWithFields("live search write failed", logger.Fields{"error": err.Error()})
			}
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		deb := search.New(ctx, cfg.Delay, fetch, func(r search.Result[dto.LiveSearchRequestDTO, dto.LiveSearchResponseDTO]) {
			resp := r.Value
			resp.Seq = r.Seq
			if r.Err != nil {
				_, code, msg := errorStatus(r.Err)
				resp.Error = &dto.ErrorResponseDTO{Error: code, Message: msg}
			}
			write(resp)
		})
		defer deb.Close()

		var last *dto.LiveSearchRequestDTO
		for {
			var req dto.LiveSearchRequestDTO
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.DebugWithFields("live search closed", logger.Fields{"error": err.Error()})
				}
				return
			}
			if req.Kind == "" {
				req.Kind = dto.SearchKindDocuments
			}
			if req.Kind != dto.SearchKindDocuments && req.Kind != dto.SearchKindSummaries {
				write(dto.LiveSearchResponseDTO{
					Kind:  req.Kind,
					Query: req.Query,
					Error: &dto.ErrorResponseDTO{Error: "invalid_request", Message: "Unknown search kind"},
				})
				continue
			}
			if req.Page < 1 {
				req.Page = 1
			}

			switch {
			case last == nil && req.Query == "":
				// 첫 화면 로딩
				deb.SubmitNow(req)
			case last != nil && sameFilter(*last, req):
				deb.SubmitNow(req)
			default:
				// 검색 조건이 바뀌면 1페이지부터 다시 본다.
				req.Page = 1
				deb.Submit(req)
			}
			last = &req
		}
	}
}

func sameFilter(a, b dto.LiveSearchRequestDTO) bool {
	return a.Kind == b.Kind && a.Query == b.Query && a.Style == b.Style && a.Language == b.Language
}
