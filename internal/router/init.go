package router

import (
	"github.com/tunehub/tunehub/internal/application"
	"github.com/tunehub/tunehub/internal/container"
	"github.com/tunehub/tunehub/internal/infrastructure/postgres"
	"github.com/tunehub/tunehub/internal/infrastructure/redisstore"
	handlers "github.com/tunehub/tunehub/internal/interface/http"
	"github.com/tunehub/tunehub/internal/router/modules"
)

// InitModules builds every service and handler from the container
// singletons and registers the feature modules. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	userRepo := postgres.NewUserRepository(container.GetPGPool())
	moderatorRepo := postgres.NewModeratorRepository(container.GetPGPool())
	songRepo := postgres.NewSongRepository(container.GetPGPool())

	codes := redisstore.NewCodeStore(container.GetRedis(), cfg.ConfirmationCodeTTL)
	dispatcher := application.NewEventDispatcher(container.GetRabbitPub(), cfg.RabbitMQCleanupQueue, logger)

	authSvc := application.NewAuthService(userRepo, jwt, codes, container.GetRedis(), container.GetRabbitPub(), cfg.RabbitMQEmailQueue, cfg.AppName, cfg.ConfirmationCodeTTL, logger)
	userSvc := application.NewUserService(userRepo, songRepo, container.GetGCS(), cfg.GCSBucket, container.GetRedis(), dispatcher, logger)
	playlistSvc := application.NewPlaylistService(userRepo, songRepo, dispatcher)
	songSvc := application.NewSongService(songRepo)
	moderatorSvc := application.NewModeratorService(moderatorRepo, userRepo, songRepo, jwt, container.GetRedis(), dispatcher, container.GetES(), cfg.ESUsersIndex, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), jwt))
	r.Add(modules.NewSongModule(handlers.NewSongHandler(songSvc)))
	r.Add(modules.NewPlaylistModule(handlers.NewPlaylistHandler(playlistSvc), jwt))
	r.Add(modules.NewModerationModule(handlers.NewModeratorHandler(moderatorSvc, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
