package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mcphub/internal/handlers"
	"mcphub/internal/middleware"
)

// Setup creates and configures the gin router with all routes.
// The dispatcher is mounted as a plain http.Handler under mountPrefix
// so every method and sub-path reaches it unchanged.
func Setup(specHandler *handlers.SpecHandler, healthHandler *handlers.HealthHandler, dispatcher http.Handler, mountPrefix string) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())

	specs := r.Group("/specs")
	{
		specs.POST("/upload", specHandler.Upload)
		specs.POST("/register-url", specHandler.RegisterURL)
		specs.GET("", specHandler.List)
		specs.GET("/:name", specHandler.Get)
		specs.POST("/:name/enable", specHandler.Enable)
		specs.POST("/:name/disable", specHandler.Disable)
		specs.DELETE("/:name", specHandler.Delete)
	}

	r.GET("/health", healthHandler.Check)

	r.Any(mountPrefix+"/*target", gin.WrapH(dispatcher))

	return r
}
