package main

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pokerconnect/backend/internal/realtime"
	"github.com/pokerconnect/backend/internal/router"
	"github.com/pokerconnect/backend/pkg/config"
	"github.com/pokerconnect/backend/pkg/firebase"
	"github.com/pokerconnect/backend/pkg/logger"
	"github.com/pokerconnect/backend/validators"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	// The server still boots without Firebase; token login, avatar upload,
	// and auth-record deletion report themselves unavailable.
	fbApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		logger.Warn("firebase unavailable", zap.Error(err))
		fbApp = nil
	}

	hub := realtime.NewHub()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	if err := router.SetupRoutes(e, db.Postgres, db.Mongo, fbApp, hub, cfg); err != nil {
		logger.Fatal("failed to set up routes", zap.Error(err))
	}

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
