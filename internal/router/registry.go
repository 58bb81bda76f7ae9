package router

import "github.com/gin-gonic/gin"

// Registry collects feature modules and mounts them all under /api.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	middleware []gin.HandlerFunc
	modules    []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use appends middleware applied to the whole API group before any
// module routes are registered.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middleware = append(r.middleware, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

func (r *Registry) RegisterAll() {
	r.API.Use(r.middleware...)
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
