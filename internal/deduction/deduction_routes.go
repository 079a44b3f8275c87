package deduction

import (
	"crewpay/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	deductions := r.Group("/deductions")
	{
		deductions.GET("/workers/:worker_id", handler.GetByWorker)
		deductions.GET("/workers/:worker_id/applicable", handler.GetApplicable)
		deductions.POST("", middleware.RequireActor(), handler.Create)
		deductions.POST("/:id/toggle", middleware.RequireActor(), handler.ToggleActive)
		deductions.DELETE("/:id", middleware.RequireActor(), handler.Delete)
	}
}
