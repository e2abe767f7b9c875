package handler

import (
	"wallet-ledger-engine/internal/adapter/http/middleware"
	"wallet-ledger-engine/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	ReportingSvc   ports.ReportingService
	LinkSvc        ports.PaymentLinkService
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
// Operation rate limiting lives inside the ledger service, keyed by
// acting wallet, so there is no per-route limiter here.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	linkHandler := NewPaymentLinkHandler(deps.LinkSvc)
	v1.GET("/payment-links/:linkID", linkHandler.GetLink)

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.LedgerSvc, deps.ReportingSvc)

	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.POST("/transfer", walletHandler.Transfer)
		wallet.POST("/deposit", walletHandler.Deposit)
		wallet.POST("/withdraw", walletHandler.Withdraw)
		wallet.POST("/payment", walletHandler.Pay)
		wallet.GET("/:walletID/balance", walletHandler.GetBalance)
		wallet.GET("/:walletID/transactions", walletHandler.ListTransactions)
	}

	return r
}
