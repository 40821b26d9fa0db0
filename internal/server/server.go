package server

import (
	"net/http"
	"strings"
	"time"

	"folklorika.bg/backend/internal/config"
	"folklorika.bg/backend/internal/middleware"
	"folklorika.bg/backend/internal/notifier"
	"folklorika.bg/backend/pkg/mailer"
	"folklorika.bg/backend/pkg/storage"

	assocHttp "folklorika.bg/backend/internal/modules/association/delivery/http"
	assocRepo "folklorika.bg/backend/internal/modules/association/repository"
	assocService "folklorika.bg/backend/internal/modules/association/service"

	eventHttp "folklorika.bg/backend/internal/modules/event/delivery/http"
	eventRepo "folklorika.bg/backend/internal/modules/event/repository"
	eventService "folklorika.bg/backend/internal/modules/event/service"

	mediaHttp "folklorika.bg/backend/internal/modules/media/delivery/http"

	moderationHttp "folklorika.bg/backend/internal/modules/moderation/delivery/http"
	moderationService "folklorika.bg/backend/internal/modules/moderation/service"

	searchHttp "folklorika.bg/backend/internal/modules/search/delivery/http"
	searchService "folklorika.bg/backend/internal/modules/search/service"

	userHttp "folklorika.bg/backend/internal/modules/user/delivery/http"
	userRepo "folklorika.bg/backend/internal/modules/user/repository"
	userService "folklorika.bg/backend/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	users := userRepo.NewUserRepository(db)
	associations := assocRepo.NewAssociationRepository(db)
	events := eventRepo.NewEventRepository(db)

	smtpMailer := mailer.NewSMTP(mailer.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailName,
	})
	mailNotifier := notifier.New(smtpMailer, cfg.AdminEmail, cfg.FrontendURL, logger)

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		meiliClient = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	searchSvc := searchService.NewSearchService(meiliClient, logger)
	searchHandler := searchHttp.NewSearchHandler(searchSvc, logger)

	authSvc := userService.NewAuthService(users, mailNotifier, userService.Options{
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    time.Duration(cfg.JWTTTLMinutes) * time.Minute,
		BaseURL:     cfg.BaseURL,
		FrontendURL: cfg.FrontendURL,
	}, logger)
	googleSvc := userService.NewGoogleAuthService(authSvc, userService.GoogleOptions{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	authHandler := userHttp.NewAuthHandler(authSvc, googleSvc, cfg.FrontendURL, logger)

	assocSvc := assocService.NewAssociationService(
		associations, users, mailNotifier, redisClient, cfg.RateLimitSubmission, logger)
	assocHandler := assocHttp.NewAssociationHandler(assocSvc, logger)

	eventSvc := eventService.NewEventService(
		events, associations, users, mailNotifier, redisClient, cfg.RateLimitSubmission, logger)
	eventHandler := eventHttp.NewEventHandler(eventSvc, logger)

	// Image hosting is optional; without Cloudinary credentials the upload
	// endpoint reports itself unavailable instead of crashing the server.
	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		logger.Warn("cloudinary storage unavailable, uploads disabled", zap.Error(err))
		imageStorage = nil
	}
	mediaHandler := mediaHttp.NewMediaHandler(imageStorage, cfg.CloudinaryUploadFolder, logger)

	moderationSvc := moderationService.NewModerationService(
		associations, events, users, searchSvc, imageStorage, mailNotifier, cfg.GreetingInterval, logger)
	moderationHandler := moderationHttp.NewModerationHandler(moderationSvc, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(users, cfg.JWTSecret)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/verify", authHandler.Verify)
		auth.GET("/google", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	api.GET("/associations", assocHandler.List)
	api.GET("/associations/:slug", assocHandler.Detail)
	api.GET("/events", eventHandler.List)
	api.GET("/events/:slug", eventHandler.Detail)
	api.GET("/search", searchHandler.Search)

	cron := api.Group("/cron")
	cron.Use(middleware.RequireCronSecret(cfg.CronSecret))
	{
		cron.GET("/new-year-greetings", moderationHandler.SendGreetings)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/user/change-password", authHandler.ChangePassword)
		protected.GET("/user/profile", authHandler.Profile)

		protected.GET("/associations/my", assocHandler.Mine)
		protected.POST("/associations", assocHandler.Create)

		protected.GET("/events/my", eventHandler.Mine)
		protected.POST("/events", eventHandler.Create)

		protected.POST("/upload", mediaHandler.Upload)

		admin := protected.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.GET("/associations", moderationHandler.PendingAssociations)
			admin.PATCH("/associations/:id", moderationHandler.ApproveAssociation)
			admin.DELETE("/associations/:id", moderationHandler.RejectAssociation)

			admin.GET("/events", moderationHandler.PendingEvents)
			admin.PATCH("/events/:id", moderationHandler.ApproveEvent)
			admin.DELETE("/events/:id", moderationHandler.RejectEvent)

			admin.GET("/users", moderationHandler.Users)
			admin.POST("/send-greetings", moderationHandler.SendGreetings)
		}
	}

	return &Server{
		engine: router,
		db:     db,
		logger: logger,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
