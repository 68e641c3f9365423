package main

import (
	"flag"
	"log/slog"
	"os"

	"affine-cipher-backend/config"
	"affine-cipher-backend/handlers"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to $AFFINE_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	router := handlers.NewRouter(cfg, logger)

	logger.Info("server starting",
		slog.String("port", cfg.Port),
		slog.Int("block_size", cfg.Cipher.BlockSize),
		slog.Int("digit_width", cfg.Cipher.DigitWidth),
		slog.Any("allowed_origins", cfg.AllowedOrigins),
	)
	logger.Info("API endpoints",
		slog.Any("routes", []string{
			"GET  /api/v1/health",
			"POST /api/v1/affine/key",
			"POST /api/v1/affine/encrypt",
			"POST /api/v1/affine/decrypt",
			"POST /api/v1/affine/encrypt/file",
			"POST /api/v1/affine/decrypt/file",
		}),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("failed to start server", slog.Any("error", err))
		os.Exit(1)
	}
}

// newLogger uses JSON records in release mode and text records when
// GIN_MODE=debug.
func newLogger(cfg config.Config) *slog.Logger {
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	if os.Getenv(gin.EnvGinMode) == gin.DebugMode {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
