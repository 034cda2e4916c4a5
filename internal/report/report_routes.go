package report

import (
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc) {
	reports := r.Group("/reports", authMW, middleware.RequireRole(domain.RoleAdmin))
	{
		reports.GET("/dashboard", middleware.RateLimitByUser(2, 5), handler.Dashboard)
	}
}
