package attendance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	records := r.Group("/attendance")
	{
		records.GET("/workers/:worker_id", handler.GetByWorker)
		records.GET("/workers/:worker_id/summary", handler.GetSummary)
	}
}
