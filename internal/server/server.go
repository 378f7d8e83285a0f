package server

import (
	"net/http"

	"checkbox-fiscalizer/internal/config"

	"github.com/gin-gonic/gin"
)

func NewRouter(cfg config.Config, handler *Handler) *gin.Engine {
	var router *gin.Engine
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
		router = gin.Default()
	} else {
		gin.SetMode(gin.ReleaseMode)
		router = gin.New()
		router.Use(gin.Recovery())
	}

	// Non-POST webhook calls must get 405, not 404.
	router.HandleMethodNotAllowed = true

	router.POST("/api/webhook", handler.Fiscalize)
	router.POST("/api/cron", handler.CloseShift)
	router.GET("/api/cron", handler.CloseShift)
	router.GET("/healthz", handler.Health)

	return router
}

func NewHTTPServer(cfg config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}
}
