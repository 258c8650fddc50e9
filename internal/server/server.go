package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/verdeo/ecohabit/internal/catalog"
	"github.com/verdeo/ecohabit/internal/config"
	"github.com/verdeo/ecohabit/internal/handler"
	"github.com/verdeo/ecohabit/internal/middleware"
	"github.com/verdeo/ecohabit/internal/repository"
	"github.com/verdeo/ecohabit/internal/service"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	badges      service.BadgeService
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	actionRepo := repository.NewActionRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)

	habitCatalog := catalog.Default()

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authSvc)

	badgeSvc := service.NewBadgeService(badgeRepo, userRepo, actionRepo)
	badgeHandler := handler.NewBadgeHandler(badgeSvc, authSvc)

	communitySvc := service.NewCommunityService(userRepo, actionRepo, redisClient, cfg.LeaderboardN)
	communityHandler := handler.NewCommunityHandler(communitySvc, redisClient)

	actionSvc := service.NewActionService(db, actionRepo, userRepo, badgeSvc, communitySvc, habitCatalog, redisClient, cfg.RateLimitLog)
	actionHandler := handler.NewActionHandler(actionSvc)

	journalSvc := service.NewJournalService(actionRepo)
	journalHandler := handler.NewJournalHandler(journalSvc)

	progressSvc := service.NewProgressService(userRepo, actionRepo, badgeSvc)
	progressHandler := handler.NewProgressHandler(progressSvc)

	router := gin.New()

	setupCORS(router, cfg)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	community := api.Group("/community")
	{
		community.GET("/stats", communityHandler.GetStats)
		community.GET("/leaderboard", communityHandler.GetLeaderboard)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)

		// Action routes
		protected.POST("/actions", actionHandler.LogActions)
		protected.GET("/actions", actionHandler.GetHistory)
		protected.GET("/actions/today", actionHandler.GetToday)
		protected.GET("/actions/stats", actionHandler.GetStats)

		// Badge routes
		protected.GET("/badges", badgeHandler.GetBadges)
		protected.GET("/badges/me", badgeHandler.GetMyBadges)

		// Journal routes
		protected.GET("/journal", journalHandler.GetJournal)
		protected.GET("/journal/:date", journalHandler.GetDate)
		protected.POST("/journal/:date/reflection", journalHandler.PostReflection)

		// Progress routes
		protected.GET("/progress", progressHandler.GetProgress)
		protected.GET("/progress/monthly", progressHandler.GetMonthly)

		// Live community feed (token may arrive as a query param for
		// browser WebSocket clients)
		protected.GET("/community/live", communityHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		badges:      badgeSvc,
	}
}

// Badges exposes the badge service so the entrypoint can seed the catalog
// after migrations.
func (s *Server) Badges() service.BadgeService {
	return s.badges
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	var origins []string
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
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
