package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tunehub/tunehub/internal/container"
	handlers "github.com/tunehub/tunehub/internal/interface/http"
	"github.com/tunehub/tunehub/internal/interface/middleware"
)

// SongModule exposes the public catalog; no auth, just rate limits.
type SongModule struct {
	Handler *handlers.SongHandler
}

func NewSongModule(h *handlers.SongHandler) *SongModule {
	return &SongModule{Handler: h}
}

func (m *SongModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/songs", rl, m.Handler.List)
	rg.GET("/songs/search", rl, m.Handler.Search)
	rg.GET("/songs/:songID", rl, m.Handler.Get)
}
