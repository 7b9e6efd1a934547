package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"user-registry/internal/container"
	handlers "user-registry/internal/interface/http"
	"user-registry/internal/interface/middleware"
)

// UserModule wires the user handlers into routes under /api/users.
//
// The fixed paths (all, onlyDeleted, search) must be registered before
// the :key routes so gin resolves them first.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	writeLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	users := rg.Group("/users")
	{
		users.GET("/all", m.Handler.GetAll)
		users.GET("/onlyDeleted", m.Handler.GetOnlyDeleted)
		users.GET("/search", m.Handler.Search)
		users.GET("/:key", m.Handler.GetByKey)

		users.POST("", writeLimiter, m.Handler.Create)
		users.PUT("/:key", writeLimiter, m.Handler.Update)
		users.PUT("/:key/restore", writeLimiter, m.Handler.Restore)
		users.DELETE("/:key", writeLimiter, m.Handler.Delete)
	}
}
