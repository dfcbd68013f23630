package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kovin-ide/kovin/internal/config"
	"github.com/kovin-ide/kovin/internal/handlers"
	"github.com/kovin-ide/kovin/internal/middleware"
	"github.com/rs/zerolog"
)

// NewRouter builds the HTTP API over app
func NewRouter(cfg *config.Config, app *App, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	ttl := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	authHandler := handlers.NewAuthHandler(app.Auth, cfg.Auth.JWTSecret, ttl)
	projectHandler := handlers.NewProjectHandler(app.Projects, app.Workflow)
	fileHandler := handlers.NewFileHandler(app.Files)
	contractHandler := handlers.NewContractHandler(app.Compiler, app.Deployer, app.Files)
	accountHandler := handlers.NewAccountHandler(app.Accounts)
	terminalHandler := handlers.NewTerminalHandler(app.Terminal)
	eventsHandler := handlers.NewEventsHandler(app.Bus, log)

	requireSession := middleware.JWTMiddleware(cfg.Auth.JWTSecret)

	api := router.Group("/api/v1")
	{
		// Auth routes (public except profile and sign-out)
		auth := api.Group("/auth")
		{
			auth.POST("/session", authHandler.CreateSession)
			auth.GET("/login-url", authHandler.LoginURL)
			auth.GET("/profile", requireSession, authHandler.Profile)
			auth.DELETE("/session", requireSession, authHandler.DeleteSession)
		}

		protected := api.Group("")
		protected.Use(requireSession)

		projects := protected.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.PUT("/:id/status", projectHandler.SetStatus)
			projects.POST("/:id/generate", projectHandler.Generate)
			projects.POST("/:id/modify", projectHandler.Modify)
			projects.GET("/:id/chats", projectHandler.ListChats)
			projects.POST("/:id/chats", projectHandler.AddChat)
			projects.DELETE("/:id/chats", projectHandler.ClearChats)

			projects.GET("/:id/files", fileHandler.ListFiles)
			projects.PUT("/:id/files", fileHandler.PushFiles)
			projects.POST("/:id/files", fileHandler.AddFile)
			projects.DELETE("/:id/files", fileHandler.ClearFiles)
			projects.GET("/:id/file", fileHandler.GetFile)
			projects.PUT("/:id/file", fileHandler.UpdateFile)
			projects.DELETE("/:id/file", fileHandler.DeleteFile)
			projects.GET("/:id/tree", fileHandler.Tree)
			projects.GET("/:id/metadata", fileHandler.Metadata)
			projects.POST("/:id/refresh", fileHandler.Refresh)

			projects.POST("/:id/compile", contractHandler.Compile)
			projects.GET("/:id/contracts", contractHandler.ListContracts)
			projects.POST("/:id/deploy/prepare", contractHandler.PrepareDeploy)
			projects.POST("/:id/deployments", contractHandler.RecordDeployment)
		}

		protected.GET("/active-project", projectHandler.GetActiveProject)
		protected.PUT("/active-project", projectHandler.SetActiveProject)
		protected.GET("/tab", projectHandler.GetTab)
		protected.PUT("/tab", projectHandler.SetTab)

		protected.GET("/selection", fileHandler.GetSelection)
		protected.PUT("/selection", fileHandler.SetSelection)
		protected.GET("/files/status", fileHandler.Status)
		protected.GET("/sample/tree", fileHandler.SampleTree)
		protected.GET("/sample/file", fileHandler.SampleFile)

		protected.GET("/account", accountHandler.GetAccount)
		protected.PUT("/account", accountHandler.SetAccount)
		protected.DELETE("/account", accountHandler.ClearAccount)
		protected.PUT("/account/network", accountHandler.SetNetwork)
		protected.GET("/deployments", accountHandler.ListDeployments)
		protected.DELETE("/deployments/:id", accountHandler.DeleteDeployment)

		protected.GET("/terminal", terminalHandler.ListLogs)
		protected.POST("/terminal", terminalHandler.AddLog)
		protected.DELETE("/terminal", terminalHandler.ClearLogs)

		protected.GET("/events", eventsHandler.Stream)
	}

	return router
}

// NewHTTPServer wraps the router with the configured timeouts
func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
}
