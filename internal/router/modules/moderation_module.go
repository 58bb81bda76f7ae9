package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tunehub/tunehub/internal/container"
	handlers "github.com/tunehub/tunehub/internal/interface/http"
	"github.com/tunehub/tunehub/internal/interface/middleware"
	"github.com/tunehub/tunehub/pkg/helpers"
)

// ModerationModule wires the console routes. Permission checks live in
// the domain; the middleware only authenticates the moderator.
type ModerationModule struct {
	Handler *handlers.ModeratorHandler
	JWT     *helpers.JWTManager
}

func NewModerationModule(h *handlers.ModeratorHandler, jwt *helpers.JWTManager) *ModerationModule {
	return &ModerationModule{Handler: h, JWT: jwt}
}

func (m *ModerationModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/moderation/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/moderation")
	auth.Use(middleware.ModeratorAuth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil))
	{
		auth.POST("/moderators", m.Handler.Create)
		auth.PUT("/moderators/:moderatorID/permissions", m.Handler.UpdatePermissions)
		auth.PUT("/moderators/:moderatorID/activate", m.Handler.ActivateModerator)
		auth.PUT("/moderators/:moderatorID/deactivate", m.Handler.DeactivateModerator)

		auth.GET("/users/search", m.Handler.SearchUsers)
		auth.PUT("/users/:userID/activate", m.Handler.ActivateUser)
		auth.PUT("/users/:userID/deactivate", m.Handler.DeactivateUser)

		auth.PUT("/songs/publish", m.Handler.PublishSongs)
		auth.POST("/songs/delete", m.Handler.DeleteSongs)
		auth.PUT("/songs/:songID/publish", m.Handler.PublishSong)
		auth.PUT("/songs/:songID/unpublish", m.Handler.UnpublishSong)
		auth.DELETE("/songs/:songID", m.Handler.DeleteSong)
	}
}
