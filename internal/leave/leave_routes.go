package leave

import (
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc, idempotencyMW gin.HandlerFunc) {
	leaves := r.Group("/leaves", authMW, middleware.RateLimitByUser(5, 10))
	{
		leaves.POST("", idempotencyMW, handler.Apply)
		leaves.GET("/my-leaves", handler.GetMine)
		leaves.GET("/:id", handler.GetByID)
		leaves.PUT("/:id", handler.Update)
		leaves.PATCH("/:id/cancel", handler.Cancel)

		admin := leaves.Group("", middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("", handler.GetAll)
			admin.PATCH("/:id/approve", handler.Approve)
			admin.PATCH("/:id/reject", handler.Reject)
		}
	}
}
