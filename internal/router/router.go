package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pokerconnect/backend/internal/handlers"
	"github.com/pokerconnect/backend/internal/middleware"
	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/realtime"
	"github.com/pokerconnect/backend/internal/repositories"
	"github.com/pokerconnect/backend/internal/tips"
	"github.com/pokerconnect/backend/pkg/config"
	"github.com/pokerconnect/backend/pkg/firebase"
	"github.com/pokerconnect/backend/pkg/logger"
)

// SetupMiddleware registers the global middleware chain
func SetupMiddleware(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				logger.Warn("request", fields...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
}

// SetupRoutes migrates the relational schema, wires the repository and
// handler graph, and registers every route.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mongoClient *mongo.Client, fbApp *firebase.App, hub *realtime.Hub, cfg *config.Config) error {
	if err := pgdb.AutoMigrate(
		&models.User{},
		&models.FriendEdge{},
		&models.FriendRequest{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.Chat{},
		&models.Message{},
	); err != nil {
		return err
	}

	userRepo := repositories.NewPostgresUserRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	chatRepo := repositories.NewPostgresChatRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoClient, cfg.MongoDatabase)
	tipGenerator := tips.NewHTTPGenerator(cfg.TipServiceURL, cfg.TipServiceKey)

	// fbApp is nil when Firebase is not configured; the handlers degrade the
	// affected endpoints instead of the whole server.
	var authClient *auth.Client
	if fbApp != nil {
		authClient = fbApp.AuthClient
	}

	authHandler := handlers.NewAuthHandler(userRepo, friendshipRepo, likeRepo, commentRepo,
		notificationRepo, chatRepo, postRepo, authClient, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(userRepo, friendshipRepo, fbApp)
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, userRepo, notificationRepo, hub)
	postHandler := handlers.NewPostHandler(postRepo, userRepo, notificationRepo, hub)
	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, likeRepo, commentRepo)
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, userRepo, notificationRepo, hub)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notificationRepo, hub)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	chatHandler := handlers.NewChatHandler(chatRepo, friendshipRepo, userRepo, hub)
	tipsHandler := handlers.NewTipsHandler(tipGenerator, userRepo)
	realtimeHandler := realtime.NewHandler(hub, cfg.JWTSecret)

	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/ws", realtimeHandler.Serve)

	authGroup := e.Group("/auth")
	authHandler.RegisterAuthRoutes(authGroup)

	api := e.Group("/api/v1", middleware.JWTAuthMiddleware(cfg.JWTSecret))
	authHandler.RegisterAccountRoutes(api)
	userHandler.RegisterRoutes(api)
	friendshipHandler.RegisterRoutes(api)
	postHandler.RegisterRoutes(api)
	feedHandler.RegisterRoutes(api)
	likeHandler.RegisterRoutes(api)
	commentHandler.RegisterRoutes(api)
	notificationHandler.RegisterRoutes(api)
	chatHandler.RegisterRoutes(api)
	tipsHandler.RegisterRoutes(api)

	return nil
}
