package cashadvance

import (
	"crewpay/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, idempotency gin.HandlerFunc) {
	advances := r.Group("/cash-advances")
	{
		advances.GET("", handler.GetAll)
		advances.GET("/:id", handler.GetByID)
		advances.GET("/workers/:worker_id", handler.GetByWorker)
		advances.POST("", middleware.RequireActor(), idempotency, handler.Request)
		advances.POST("/:id/approve", middleware.RequireActor(), handler.Approve)
		advances.POST("/:id/reject", middleware.RequireActor(), handler.Reject)
		advances.POST("/:id/payments", middleware.RequireActor(), handler.RecordPayment)
	}
}
