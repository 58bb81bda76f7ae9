package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tunehub/tunehub/internal/container"
	handlers "github.com/tunehub/tunehub/internal/interface/http"
	"github.com/tunehub/tunehub/internal/interface/middleware"
	"github.com/tunehub/tunehub/pkg/helpers"
)

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	// uploads get a tighter limit than profile reads
	uploadLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)
	{
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/me", m.Handler.UpdateProfile)
		auth.POST("/me/avatar", uploadLimiter, m.Handler.UploadAvatar)
		auth.POST("/me/songs", uploadLimiter, m.Handler.UploadSong)
		auth.GET("/me/likes", m.Handler.LikedSongs)
		auth.PUT("/me/likes/:songID", m.Handler.Like)
		auth.DELETE("/me/likes/:songID", m.Handler.Unlike)
	}
}
