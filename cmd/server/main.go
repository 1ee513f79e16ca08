package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/learnlingo/learnlingo-api/api/swagger"
	"github.com/learnlingo/learnlingo-api/internal/handler"
	"github.com/learnlingo/learnlingo-api/internal/middleware"
	"github.com/learnlingo/learnlingo-api/internal/repository"
	"github.com/learnlingo/learnlingo-api/internal/service"
	"github.com/learnlingo/learnlingo-api/pkg/cache"
	"github.com/learnlingo/learnlingo-api/pkg/config"
	"github.com/learnlingo/learnlingo-api/pkg/database"
	"github.com/learnlingo/learnlingo-api/pkg/logger"
	corsmiddleware "github.com/learnlingo/learnlingo-api/pkg/middleware/cors"
	reqidmiddleware "github.com/learnlingo/learnlingo-api/pkg/middleware/requestid"
)

// @title LearnLingo API
// @version 1.0.0
// @description Online language tutor directory: paged teacher feed, search, favorites and trial-lesson bookings
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	teacherRepo := repository.NewTeacherRepository(db)
	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	favoritesRepo := repository.NewFavoritesRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Directory.SearchCacheTTL, logr, true)
	teacherSvc := service.NewTeacherService(teacherRepo, cacheSvc, cfg.Directory.PageSize, cfg.Directory.SearchCacheTTL, logr)
	listingSvc := service.NewListingService(teacherRepo, teacherSvc, cfg.Directory.PageSize, cfg.Directory.SessionTTL, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	favoritesSvc := service.NewFavoritesService(favoritesRepo, teacherRepo, logr)
	bookingSvc := service.NewBookingService(bookingRepo, teacherRepo, validate, logr)
	exportSvc := service.NewExportService(teacherRepo, logr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listingSvc.StartSweeper(ctx)

	teacherHandler := handler.NewTeacherHandler(teacherSvc, exportSvc)
	feedHandler := handler.NewFeedHandler(listingSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	favoritesHandler := handler.NewFavoritesHandler(favoritesSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	teachers := api.Group("/teachers")
	{
		teachers.GET("", teacherHandler.List)
		teachers.GET("/search", teacherHandler.Search)
		if cfg.Exports.Enabled {
			teachers.GET("/export", teacherHandler.Export)
		}
		teachers.GET("/:id", teacherHandler.Get)
	}

	feed := api.Group("/feed")
	{
		feed.POST("", feedHandler.Create)
		feed.GET("/:id", feedHandler.Get)
		feed.POST("/:id/more", feedHandler.More)
		feed.PUT("/:id/filter", feedHandler.Filter)
		feed.DELETE("/:id", feedHandler.Delete)
	}

	favorites := api.Group("/favorites", middleware.OptionalJWT(authSvc))
	{
		favorites.GET("", favoritesHandler.List)
		favorites.GET("/watch", favoritesHandler.Watch)
		favorites.GET("/:id", favoritesHandler.Check)
		favorites.POST("/:id/toggle", favoritesHandler.Toggle)
	}

	bookings := api.Group("/bookings", middleware.OptionalJWT(authSvc))
	{
		bookings.POST("", bookingHandler.Create)
		bookings.GET("", middleware.JWT(authSvc), bookingHandler.List)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
