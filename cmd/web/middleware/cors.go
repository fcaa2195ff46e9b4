package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"pdf-desk/cmd/internal/trace"
)

// CORS 는 프론트엔드 origin 에서의 호출을 허용한다.
// preflight(OPTIONS) 요청은 여기서 응답하고 끝낸다.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cr := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", trace.HeaderRequestID},
		ExposedHeaders:   []string{"Content-Disposition", trace.HeaderRequestID, trace.HeaderSpanID},
		AllowCredentials: true,
	})

	return func(c *gin.Context) {
		cr.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
