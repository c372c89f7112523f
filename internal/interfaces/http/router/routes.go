package router

import (
	"github.com/eventi/backend/internal/interfaces/http/handler"
	"github.com/eventi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the handlers mounted by Routes
type Handlers struct {
	Events  *handler.EventHandler
	Files   *handler.FileHandler
	Reports *handler.ReportHandler
	Archive *handler.ArchiveHandler
	Auth    *handler.AuthHandler
	System  *handler.SystemHandler
}

// RouteConfig holds the per-route middleware settings
type RouteConfig struct {
	// CORS applies to the public API only
	CORS middleware.CORSConfig
	// APILimiter limits the public API per client IP; nil disables it
	APILimiter *middleware.RateLimiter
	// LoginLimiter limits login attempts per client IP; nil disables it
	LoginLimiter *middleware.RateLimiter
}

// Routes returns the route groups of the site
func Routes(h Handlers, cfg RouteConfig) []RouteRegistrar {
	requireLogin := middleware.RequireLogin()

	events := NewDomainGroup("events", "")
	events.GET("/", h.Events.List)
	events.GET("/evento/:id/", h.Events.Detail)
	eventForms := events.Group("event-forms", "").Use(requireLogin)
	eventForms.GET("/evento/crea/", h.Events.New)
	eventForms.POST("/evento/crea/", h.Events.Create)
	eventForms.GET("/evento/:id/modifica/", h.Events.Edit)
	eventForms.POST("/evento/:id/modifica/", h.Events.Update)

	files := NewDomainGroup("event-files", "/events").Use(requireLogin)
	files.GET("/:id/delete/", h.Events.ConfirmDelete)
	files.POST("/:id/delete/", h.Events.Delete)
	files.GET("/:id/upload-file/", h.Files.UploadForm)
	files.POST("/:id/upload-file/", h.Files.Upload)
	files.GET("/:id/files/:fid/download/", h.Files.Download)
	files.GET("/:id/files/:fid/delete/", h.Files.ConfirmDelete)
	files.POST("/:id/files/:fid/delete/", h.Files.Delete)

	reports := NewDomainGroup("reports", "/report").Use(requireLogin)
	reports.GET("/", h.Reports.Selection)
	reports.POST("/genera/", h.Reports.Generate)

	archive := NewDomainGroup("report-archive", "/reports/files").Use(requireLogin)
	archive.GET("/", h.Archive.List)
	archive.GET("/download/", h.Archive.Download)
	archive.POST("/delete/", h.Archive.Delete)

	accounts := NewDomainGroup("accounts", "/accounts")
	loginLimit := passthrough()
	if cfg.LoginLimiter != nil {
		loginLimit = middleware.LoginRateLimit(cfg.LoginLimiter, h.Auth.LoginRateLimited)
	}
	accounts.GET("/login/", h.Auth.LoginForm)
	accounts.POST("/login/", loginLimit, h.Auth.Login)
	accounts.POST("/logout/", h.Auth.Logout)

	api := NewDomainGroup("api", "/api").Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.APILimiter != nil {
		api.Use(middleware.RateLimit(cfg.APILimiter))
	}
	api.GET("/events/public/", h.Events.Public)
	api.OPTIONS("/events/public/", func(*gin.Context) {})

	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)

	return []RouteRegistrar{events, files, reports, archive, accounts, api, system}
}

func passthrough() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
