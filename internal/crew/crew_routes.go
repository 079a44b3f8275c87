package crew

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	workers := r.Group("/workers")
	{
		workers.GET("", handler.GetAll)
		workers.GET("/:id", handler.GetById)
	}
}
