package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tunehub/tunehub/internal/container"
	handlers "github.com/tunehub/tunehub/internal/interface/http"
	"github.com/tunehub/tunehub/internal/interface/middleware"
	"github.com/tunehub/tunehub/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits; registration and code
	// confirmation are the abuse-prone ones.
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	codeLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/activate", codeLimiter, m.Handler.Activate)
	rg.POST("/auth/activate/resend", registerLimiter, m.Handler.ResendActivation)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/auth/password/forgot", registerLimiter, m.Handler.ForgotPassword)
	rg.POST("/auth/password/reset", codeLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.POST("/auth/logout", m.Handler.Logout)
}
