package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/langtutor/content-pipeline/api/handlers"
	"github.com/langtutor/content-pipeline/api/middleware"
)

// SetupRoutes wires all API routes.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	v1.GET("/health", h.Content.HealthCheck)

	content := v1.Group("/content")
	{
		content.POST("/process/url", h.Content.ProcessURL)
		content.POST("/process/upload", h.Content.ProcessUpload)
		content.GET("/status/:contentId", h.Content.GetStatus)
		content.GET("/library", h.Content.GetLibrary)
		content.GET("/search", h.Content.Search)
		content.GET("/material/:materialId", h.Content.GetMaterial)
		content.GET("/stats", h.Content.GetStats)
		content.GET("/:contentId", h.Content.GetContent)
		content.DELETE("/:contentId", h.Content.DeleteContent)
	}
}
