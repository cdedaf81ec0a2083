package cli

import (
	"log/slog"
	"strconv"

	"github.com/mrelokusa/PopQuiz/internal/cache"
	"github.com/mrelokusa/PopQuiz/internal/config"
	"github.com/mrelokusa/PopQuiz/internal/database"
	"github.com/mrelokusa/PopQuiz/internal/handlers"
	"github.com/mrelokusa/PopQuiz/internal/logging"
	"github.com/mrelokusa/PopQuiz/internal/middleware"
	"github.com/mrelokusa/PopQuiz/internal/services"
	"github.com/mrelokusa/PopQuiz/internal/storage/postgres"
	"github.com/mrelokusa/PopQuiz/internal/ws"

	_ "github.com/mrelokusa/PopQuiz/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides SERVER_PORT)")
	return cmd
}

func runServer(portFlag string) error {
	cfg := config.Load()
	logging.Setup(slog.LevelInfo)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	var feed *cache.FeedCache
	if cfg.RedisAddr != "" {
		redisDB, err := strconv.Atoi(cfg.RedisDB)
		if err != nil {
			slog.Warn("invalid REDIS_DB, using database 0", "value", cfg.RedisDB)
			redisDB = 0
		}
		feed = cache.New(cfg.RedisAddr, cfg.RedisPassword, redisDB,
			config.Duration(cfg.FeedCacheTTL, cache.DefaultFeedTTL))
		defer feed.Close()
	}

	hub := ws.NewHub()

	quizStore := postgres.NewQuizStore(db)
	resultStore := postgres.NewResultStore(db)
	profileStore := postgres.NewProfileStore(db)
	userStore := postgres.NewUserStore(db)

	authService := services.NewAuthService(userStore, profileStore, cfg.JWTSecret)
	quizService := services.NewQuizService(quizStore, feed)
	resultService := services.NewResultService(quizService, resultStore, hub)
	aiService := services.NewAIGenerateService(cfg.GeminiAPIKey, cfg.GeminiAPIURL, cfg.GeminiModel)

	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService, authService)
	playHandler := handlers.NewPlayHandler(resultService)
	activityHandler := handlers.NewActivityHandler(resultService)
	aiHandler := handlers.NewAIHandler(aiService)
	wsHandler := handlers.NewWSHandler(hub, authService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/activity", wsHandler.Activity)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.JWTAuth(authService), authHandler.Logout)
			auth.GET("/session", authHandler.Session)
		}

		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("/ai-status", aiHandler.Status)
			quizzes.POST("/generate", middleware.JWTAuth(authService), aiHandler.Generate)
			quizzes.GET("", middleware.OptionalAuth(authService), quizHandler.List)
			quizzes.POST("", middleware.JWTAuth(authService), quizHandler.Create)
			quizzes.GET("/:id", quizHandler.Get)
			quizzes.POST("/:id/play", middleware.OptionalAuth(authService), playHandler.Play)
			quizzes.GET("/:id/stats", playHandler.Stats)
		}

		api.GET("/activity", middleware.JWTAuth(authService), activityHandler.List)
	}

	port := cfg.ServerPort
	if portFlag != "" {
		port = portFlag
	}
	slog.Info("server starting", "port", port)
	return r.Run(":" + port)
}
