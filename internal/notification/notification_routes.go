package notification

import (
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc) {
	notifications := r.Group("/notifications", authMW)
	{
		notifications.GET("", middleware.RateLimitByUser(2, 5), handler.ListMine)
	}
}
