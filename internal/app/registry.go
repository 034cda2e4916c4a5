package app

import (
	"database/sql"

	"leavedesk/internal/auth"
	"leavedesk/internal/leave"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/middleware"
	"leavedesk/internal/notification"
	"leavedesk/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	tokens *auth.TokenManager,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	reportRepo := report.NewRepository(gormDB)

	// --- Services ---
	authService := auth.NewService(authRepo, tokens)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo)
	notificationService := notification.NewService(notificationRepo)
	reportService := report.NewService(reportRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandler(leaveService)
	notificationHandler := notification.NewHandler(notificationService)
	reportHandler := report.NewHandler(reportService)

	// --- Middleware ---
	authMW := middleware.AuthMiddleware(authService)
	idempotencyMW := middleware.Idempotency(rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW)
		leave.RegisterRoutes(api, leaveHandler, authMW, idempotencyMW)
		notification.RegisterRoutes(api, notificationHandler, authMW)
		report.RegisterRoutes(api, reportHandler, authMW)
	}

	return nil
}
