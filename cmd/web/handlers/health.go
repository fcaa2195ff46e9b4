package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pdf-desk/cmd/internal/format"
	"pdf-desk/cmd/internal/services"
)

// PingHandler 는 게이트웨이 자체의 생존 확인이다.
func PingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	}
}

// HealthHandler godoc
// @Summary      상태 확인
// @Description  백엔드 /health 를 확인한다. 백엔드가 응답하지 않거나 healthy 가 아니면 503.
// @Description  백엔드가 503 과 함께 상태를 알려주면 그 내용을 backend 에 그대로 담는다.
// @Tags         health
// @Produce      json
// @Success      200  {object}  object{status=string,backend=pdfapi.HealthStatus}
// @Failure      503  {object}  object{status=string,backend=pdfapi.HealthStatus,error=string}
// @Router       /health [get]
func HealthHandler(svc *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		health, err := svc.Health(ctx)
		switch {
		case err != nil && health.Status == "":
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "backend": "down", "error": err.Error()})
		case err != nil:
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "backend": health, "error": err.Error()})
		case format.StatusTone(health.Status) != format.ToneSuccess:
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "backend": health})
		default:
			c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": health})
		}
	}
}

// HomeHandler godoc
// @Summary      홈 화면 통계
// @Description  전체 문서 수와 요약 수.
// @Tags         home
// @Produce      json
// @Success      200  {object}  services.HomeStats
// @Router       /home [get]
func HomeHandler(svc *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Home(c.Request.Context())
		if err != nil {
			respondError(c, "home stats", err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
