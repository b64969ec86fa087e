package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/troophq/packtrack/internal/api/handlers"
	"github.com/troophq/packtrack/internal/api/middleware"
	"github.com/troophq/packtrack/internal/auth"
	"github.com/troophq/packtrack/internal/config"
	"github.com/troophq/packtrack/internal/web"
	"gorm.io/gorm"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	// Set Gin mode
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	authenticator := auth.NewBasicAuthenticator(
		db,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenLifetime)*time.Hour,
	)

	limiter := middleware.NewRateLimiter(
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
		cfg.RateLimit.MaxRequests,
	)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, authenticator)
	boxHandler := handlers.NewBoxHandler(db)
	itemHandler := handlers.NewItemHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	templateHandler := handlers.NewTemplateHandler(db)

	api := router.Group("/api")
	api.Use(limiter.Middleware())

	// Public routes
	api.GET("/health", handlers.HealthCheck)
	api.POST("/auth/login", handlers.Login(authenticator))

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(authenticator.Middleware())
	{
		protected.GET("/auth/me", handlers.GetCurrentUser(authenticator))
		protected.POST("/auth/change-password", handlers.ChangePassword(authenticator))

		// User management (admin only)
		admin := protected.Group("/auth/users")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("", userHandler.ListUsers)
			admin.POST("", userHandler.CreateUser)
			admin.DELETE("/:id", userHandler.DeleteUser)
		}

		// Read endpoints (any authenticated role)
		protected.GET("/boxes", boxHandler.ListBoxes)
		protected.GET("/boxes/:id", boxHandler.GetBox)
		protected.GET("/profiles", profileHandler.ListProfiles)
		protected.GET("/templates", templateHandler.ListTemplates)

		// Write endpoints (admin or editor)
		editor := protected.Group("")
		editor.Use(middleware.RequireEditor())
		{
			editor.POST("/boxes", boxHandler.CreateBox)
			editor.PUT("/boxes/:id", boxHandler.UpdateBox)
			editor.DELETE("/boxes/:id", boxHandler.DeleteBox)
			editor.POST("/boxes/:id/items", itemHandler.CreateItem)
			editor.POST("/boxes/:id/apply-template", boxHandler.ApplyTemplate)
			editor.PUT("/items/:id", itemHandler.UpdateItem)
			editor.DELETE("/items/:id", itemHandler.DeleteItem)

			editor.POST("/profiles", profileHandler.CreateProfile)
			editor.PUT("/profiles/:id", profileHandler.UpdateProfile)
			editor.DELETE("/profiles/:id", profileHandler.DeleteProfile)

			editor.POST("/templates", templateHandler.CreateTemplate)
			editor.PUT("/templates/:id", templateHandler.UpdateTemplate)
			editor.DELETE("/templates/:id", templateHandler.DeleteTemplate)
		}
	}

	// Embedded frontend for everything outside /api
	if fsys, err := web.GetFileSystem(); err == nil {
		fileServer := http.FileServer(fsys)
		router.NoRoute(func(c *gin.Context) {
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
	} else {
		slog.Warn("Embedded frontend unavailable", "error", err)
	}

	slog.Info("API router initialized", "mode", cfg.Server.Mode)
	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		slog.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"ip", c.ClientIP(),
		)
	}
}

// corsMiddleware restricts cross-origin requests to the configured origins.
// Requests without an Origin header (curl, same-origin) pass through.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
