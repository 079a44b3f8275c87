package payroll

import (
	"crewpay/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts payroll endpoints. Generate sits behind the
// idempotency guard in addition to the actor check.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, idempotency gin.HandlerFunc) {
	payrolls := r.Group("/payrolls")
	{
		payrolls.GET("", handler.GetByPeriod)
		payrolls.GET("/:id", handler.GetByID)
		payrolls.GET("/workers/:worker_id/preview", handler.Preview)
		payrolls.POST("/generate", middleware.RequireActor(), idempotency, handler.Generate)
		payrolls.POST("/mark-paid", middleware.RequireActor(), handler.MarkPaid)
		payrolls.POST("/:id/archive", middleware.RequireActor(), handler.Archive)
		payrolls.POST("/:id/restore", middleware.RequireActor(), handler.Restore)
	}
}
