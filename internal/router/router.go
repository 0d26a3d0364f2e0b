package router

import (
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/snipvid/backend/internal/handlers"
	"github.com/snipvid/backend/internal/middleware"
	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/notify"
	"github.com/snipvid/backend/internal/repositories"
	"github.com/snipvid/backend/internal/services"
	"github.com/snipvid/backend/pkg/config"
	"github.com/snipvid/backend/pkg/logger"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(logger.RequestLogger())
}

// SetupRoutes configures all application routes and injects dependencies.
// It returns the counter reconciler so main can manage its lifecycle.
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, authClient *auth.Client, messagingClient *messaging.Client) *services.CounterReconciler {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.FollowEdge{},
		&models.Comment{},
		&models.Bookmark{},
		&models.Notification{},
		&models.Report{},
	)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to auto migrate models")
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(cfg.MongoDatabase))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	reportRepo := repositories.NewPostgresReportRepository(pgdb)

	// --- Follow-graph services ---
	reconciler := services.NewCounterReconciler(userRepo, followRepo, cfg.ReconcilerWorkers, cfg.ReconcilerQueueSize)
	decorator := services.NewFollowDecorator(followRepo)

	var pusher services.NotificationPusher
	if messagingClient != nil {
		pusher = notify.NewFCMPusher(messagingClient, userRepo)
	}
	followService := services.NewFollowService(followRepo, userRepo, notificationRepo, reconciler, pusher)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, authClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// Session renewal authenticated by the Firebase ID token itself
	if authClient != nil {
		firebaseGroup := e.Group("/api/v1/auth", middleware.FirebaseAuthMiddleware(authClient))
		authHandler.RegisterFirebaseSessionRoutes(firebaseGroup)
	}

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo, decorator)
	userHandler.RegisterProfileRoutes(api)

	followHandler := handlers.NewFollowHandler(followService, followRepo, decorator)
	followHandler.RegisterFollowRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, decorator)
	postHandler.RegisterPostRoutes(api)

	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, bookmarkRepo, decorator)
	feedHandler.RegisterFeedRoutes(api)

	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo, postRepo)
	bookmarkHandler.RegisterBookmarkRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notificationRepo, decorator)
	commentHandler.RegisterCommentRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	reportHandler := handlers.NewReportHandler(reportRepo, postRepo, userRepo)
	reportHandler.RegisterReportRoutes(api)

	logger.L().Info().Msg("all routes configured")
	return reconciler
}
