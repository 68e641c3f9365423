package handlers

import (
	"log/slog"
	"slices"

	"affine-cipher-backend/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the middleware stack and the API routes.
func NewRouter(cfg config.Config, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		if slices.Contains(cfg.AllowedOrigins, "*") {
			corsConfig.AllowAllOrigins = true
		} else {
			corsConfig.AllowOrigins = cfg.AllowedOrigins
			corsConfig.AllowCredentials = true
		}
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", RequestIDHeader}
		corsConfig.ExposeHeaders = []string{"X-Affine-Modulus", "X-Affine-Blocks", "X-Affine-Warning", "Content-Disposition", RequestIDHeader}
		router.Use(cors.New(corsConfig))
	}

	cipherHandler := NewCipherHandler(cfg.Cipher, cfg.MaxUploadBytes, logger)

	// API Routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", cipherHandler.HealthCheck)

		affine := api.Group("/affine")
		{
			affine.POST("/key", cipherHandler.InspectKey)
			affine.POST("/encrypt", cipherHandler.Encrypt)
			affine.POST("/decrypt", cipherHandler.Decrypt)
			affine.POST("/encrypt/file", cipherHandler.EncryptFile)
			affine.POST("/decrypt/file", cipherHandler.DecryptFile)
		}
	}

	return router
}
