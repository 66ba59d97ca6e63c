package handler

import (
	"simple-atm/internal/adapter/http/middleware"
	redisStore "simple-atm/internal/adapter/storage/redis"
	"simple-atm/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 64 << 10

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ATMSvc         ports.ATMService
	JournalSvc     ports.JournalService
	AdminSvc       ports.AdminService         // nil = admin routes disabled
	TokenSvc       ports.TokenService         // required when AdminSvc is set
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()

	// rl returns the limiter for group, or a no-op when rate limiting is off.
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	atmHandler := NewATMHandler(deps.ATMSvc)
	simple := v1.Group("/simple")
	{
		simple.GET("", rl(middleware.GroupTelemetry), atmHandler.Telemetry)
		simple.POST("/deposit", rl(middleware.GroupDeposit), atmHandler.Deposit)
		simple.POST("/withdraw", rl(middleware.GroupWithdraw), atmHandler.Withdraw)
	}

	if deps.AdminSvc != nil {
		adminHandler := NewAdminHandler(deps.AdminSvc, deps.ATMSvc, deps.JournalSvc)
		jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

		admin := v1.Group("/admin")
		admin.POST("/login", rl(middleware.GroupAdminLogin), adminHandler.Login)

		secured := admin.Group("", jwtAuth, rl(middleware.GroupAdmin))
		{
			secured.POST("/reset", adminHandler.Reset)
			secured.GET("/journal", adminHandler.ListJournal)
		}
	}

	return r
}
