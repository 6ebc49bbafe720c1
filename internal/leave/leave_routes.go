package leave

import "github.com/gin-gonic/gin"

// RegisterRoutes expects r to run auth and actor resolution already.
// idempotency wraps submission so client retries do not double-book.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, idempotency gin.HandlerFunc) {
	leaves := r.Group("/leaves")
	{
		leaves.POST("", idempotency, handler.Submit)
		leaves.GET("", handler.GetAll)
		leaves.GET("/conflicts/team", handler.CheckTeamConflicts)
		leaves.GET("/conflicts/holidays", handler.CheckHolidayConflicts)
		leaves.GET("/:id", handler.GetByID)
		leaves.POST("/:id/decision", handler.Decide)
		leaves.POST("/:id/cancel", handler.Cancel)
	}
}
