package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tunehub/tunehub/internal/container"
	handlers "github.com/tunehub/tunehub/internal/interface/http"
	"github.com/tunehub/tunehub/internal/interface/middleware"
	"github.com/tunehub/tunehub/pkg/helpers"
)

type PlaylistModule struct {
	Handler *handlers.PlaylistHandler
	JWT     *helpers.JWTManager
}

func NewPlaylistModule(h *handlers.PlaylistHandler, jwt *helpers.JWTManager) *PlaylistModule {
	return &PlaylistModule{Handler: h, JWT: jwt}
}

func (m *PlaylistModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/playlists")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("", m.Handler.List)
		auth.POST("", m.Handler.Create)
		auth.DELETE("/:playlistID", m.Handler.Remove)
		auth.PUT("/:playlistID/songs/:songID", m.Handler.AddSong)
		auth.DELETE("/:playlistID/songs/:songID", m.Handler.RemoveSong)
	}
}
