package holiday

import "github.com/gin-gonic/gin"

// RegisterRoutes expects r to run auth and actor resolution already.
// requireAdmin guards the cache mutations.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, requireAdmin gin.HandlerFunc) {
	holidays := r.Group("/holidays")
	{
		holidays.GET("", handler.Query)
		holidays.POST("/:country", requireAdmin, handler.Ingest)
		holidays.POST("/:country/sync", requireAdmin, handler.Sync)
		holidays.DELETE("/:country/:date", requireAdmin, handler.Delete)
	}
}
