package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"pdf-desk/cmd/internal/services"
	"pdf-desk/cmd/internal/study"
	"pdf-desk/cmd/web/handlers"
	"pdf-desk/cmd/web/middleware"
)

// Deps 는 라우터가 사용하는 서비스들이다.
type Deps struct {
	Documents      *services.DocumentService
	Summaries      *services.SummaryService
	Stats          *services.StatsService
	Study          *study.Store
	LiveSearch     handlers.LiveSearchConfig
	AllowedOrigins []string
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(d.AllowedOrigins))
	r.Use(middleware.RequestTrace())
	r.Use(middleware.RequestLoggingMiddleware())

	r.GET("/ping", handlers.PingHandler())
	r.GET("/health", handlers.HealthHandler(d.Stats))

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/home", handlers.HomeHandler(d.Stats))

		api.GET("/documents", handlers.ListDocumentsHandler(d.Documents))
		api.POST("/documents", handlers.UploadDocumentHandler(d.Documents))
		api.GET("/documents/select", handlers.SelectDocumentsHandler(d.Documents))
		api.GET("/documents/:id", handlers.GetDocumentHandler(d.Documents))
		api.DELETE("/documents/:id", handlers.DeleteDocumentHandler(d.Documents))
		api.GET("/documents/:id/download", handlers.DownloadDocumentHandler(d.Documents))
		api.GET("/documents/:id/summaries", handlers.DocumentSummariesHandler(d.Documents))
		api.POST("/documents/:id/summaries", handlers.GenerateSummaryHandler(d.Documents))

		api.GET("/summaries", handlers.ListSummariesHandler(d.Summaries))
		api.DELETE("/summaries", handlers.BulkDeleteSummariesHandler(d.Summaries))
		api.GET("/summaries/stats", handlers.SummaryStatsHandler(d.Summaries))
		api.GET("/summaries/:id", handlers.GetSummaryHandler(d.Summaries))
		api.DELETE("/summaries/:id", handlers.DeleteSummaryHandler(d.Summaries))

		api.GET("/search/live", handlers.LiveSearchHandler(d.Documents, d.Summaries, d.LiveSearch))

		sessions := api.Group("/study/sessions")
		sessions.POST("", handlers.CreateStudySessionHandler(d.Study))
		sessions.GET("/:sid", handlers.GetStudySessionHandler(d.Study))
		sessions.DELETE("/:sid", handlers.DeleteStudySessionHandler(d.Study))
		sessions.POST("/:sid/documents", handlers.AddStudyDocumentHandler(d.Study))
		sessions.PUT("/:sid/documents/:id", handlers.RefreshStudyDocumentHandler(d.Study))
		sessions.DELETE("/:sid/documents/:id", handlers.RemoveStudyDocumentHandler(d.Study))
		sessions.POST("/:sid/messages", handlers.SendStudyMessageHandler(d.Study))
		sessions.DELETE("/:sid/messages", handlers.ResetStudyMessagesHandler(d.Study))
	}

	return r
}
