package router

import "github.com/gin-gonic/gin"

// Module is a feature area (auth, songs, moderation, ...) that mounts
// its own routes on the shared API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
