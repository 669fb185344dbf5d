package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/settlement-backend/internal/config"
	"github.com/ignatzorin/settlement-backend/internal/http/handlers"
	"github.com/ignatzorin/settlement-backend/internal/http/middleware"
	"github.com/ignatzorin/settlement-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	contractHandler *handlers.ContractHandler,
	paymentHandler *handlers.PaymentHandler,
	webhookHandler *handlers.WebhookHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))

	// Вебхук шлюза аутентифицируется подписью, а не JWT.
	api.POST("/webhooks/gateway", webhookHandler.HandleGatewayWebhook)
	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/contracts", contractHandler.CreateContract)
		protected.GET("/contracts", contractHandler.ListMyContracts)
		protected.GET("/contracts/:id", middleware.UUIDValidator("id"), contractHandler.GetContract)
		protected.GET("/contracts/:id/breakdown", middleware.UUIDValidator("id"), contractHandler.GetBreakdown)
		protected.POST("/contracts/:id/finalize", middleware.UUIDValidator("id"), contractHandler.FinalizeContract)
		protected.POST("/contracts/:id/sign", middleware.UUIDValidator("id"), contractHandler.SignContract)
		protected.POST("/contracts/:id/complete", middleware.UUIDValidator("id"), contractHandler.CompleteContract)
		protected.POST("/contracts/:id/cancel", middleware.UUIDValidator("id"), contractHandler.CancelContract)
		protected.POST("/contracts/:id/dispute", middleware.UUIDValidator("id"), contractHandler.DisputeContract)
		protected.POST("/contracts/:id/resolve", middleware.UUIDValidator("id"), contractHandler.ResolveDispute)

		protected.POST("/contracts/:id/milestones/:milestoneId/start",
			middleware.UUIDValidator("id"), middleware.UUIDValidator("milestoneId"), contractHandler.StartMilestone)
		protected.POST("/contracts/:id/milestones/:milestoneId/complete",
			middleware.UUIDValidator("id"), middleware.UUIDValidator("milestoneId"), contractHandler.CompleteMilestone)
		protected.POST("/contracts/:id/milestones/:milestoneId/dispute",
			middleware.UUIDValidator("id"), middleware.UUIDValidator("milestoneId"), contractHandler.DisputeMilestone)

		protected.POST("/contracts/:id/payments", middleware.UUIDValidator("id"), paymentHandler.InitiatePayment)
		protected.GET("/contracts/:id/payments", middleware.UUIDValidator("id"), paymentHandler.ListContractPayments)
		protected.POST("/payments/:id/refund", middleware.UUIDValidator("id"), paymentHandler.RefundPayment)
	}

	return r
}
