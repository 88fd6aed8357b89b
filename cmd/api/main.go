package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/testing-platform-api/internal/config"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
	"github.com/yourusername/testing-platform-api/internal/gamification"
	"github.com/yourusername/testing-platform-api/internal/handler"
	"github.com/yourusername/testing-platform-api/internal/middleware"
	"github.com/yourusername/testing-platform-api/internal/repository/jsonfile"
	pgRepo "github.com/yourusername/testing-platform-api/internal/repository/postgres"
	"github.com/yourusername/testing-platform-api/internal/service"
	"github.com/yourusername/testing-platform-api/internal/session"
	"github.com/yourusername/testing-platform-api/pkg/auth"
	"github.com/yourusername/testing-platform-api/pkg/database"
)

// repositories — набор репозиториев выбранного бекенда хранилища
type repositories struct {
	users   repository.UserRepository
	quizzes repository.QuizRepository
	results repository.ResultRepository
}

func buildRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
		if err != nil {
			return nil, err
		}
		if err := database.MigrateDB(db); err != nil {
			return nil, err
		}
		return &repositories{
			users:   pgRepo.NewUserRepo(db),
			quizzes: pgRepo.NewQuizRepo(db),
			results: pgRepo.NewResultRepo(db),
		}, nil

	case config.BackendJSONFile:
		store, err := jsonfile.NewStore(cfg.Storage.FilePath)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:   jsonfile.NewUserRepo(store),
			quizzes: jsonfile.NewQuizRepo(store),
			results: jsonfile.NewResultRepo(store),
		}, nil
	}
	// Недостижимо: config.Load уже проверил значение
	return nil, errors.New("unknown storage backend")
}

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Хранилище
	repos, err := buildRepositories(cfg)
	if err != nil {
		log.Printf("Failed to initialize storage: %v", err)
		os.Exit(1)
	}

	// Сервисы
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	authService := service.NewAuthService(repos.users, jwtService)
	quizService := service.NewQuizService(repos.quizzes, cfg.Quiz.DefaultTimeLimitMin)
	scoringService := service.NewScoringService(repos.quizzes, repos.results, repos.users)
	statsService := service.NewStatsService(repos.users, repos.results)

	// Геймификация — подписчик на отправки, не участник транзакции
	tracker, err := gamification.NewTracker(cfg.Storage.GamificationPath)
	if err != nil {
		log.Printf("Failed to load gamification progress: %v", err)
		os.Exit(1)
	}
	scoringService.Subscribe(tracker)

	// Серверные сессии прохождения
	sessionManager := session.NewManager(scoringService,
		time.Duration(cfg.Quiz.SubmitGraceSec)*time.Second)

	// Обработчики
	authHandler := handler.NewAuthHandler(authService)
	quizHandler := handler.NewQuizHandler(quizService, scoringService)
	userHandler := handler.NewUserHandler(authService, statsService, tracker)
	statsHandler := handler.NewStatsHandler(statsService)
	sessionHandler := handler.NewSessionHandler(quizService, sessionManager)
	wsHandler := handler.NewWSHandler(sessionManager)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Ограничитель запросов (опционально, при недоступном Redis — fail-open)
	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.Enabled {
		redisClient, err := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("Warning: Redis unavailable, rate limiting disabled: %v", err)
		} else {
			rateLimiter = middleware.NewRateLimiter(redisClient)
		}
	}
	limit := func(cfg middleware.RateLimitConfig) gin.HandlerFunc {
		if rateLimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return rateLimiter.Limit(cfg)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		api.POST("/register", limit(middleware.AuthRateLimitConfig()), authHandler.Register)
		api.POST("/login", limit(middleware.AuthRateLimitConfig()), authHandler.Login)

		// Публичные чтения
		api.GET("/leaderboard", userHandler.GetLeaderboard)
		api.GET("/stats/overview", statsHandler.Overview)
		api.GET("/quizzes", quizHandler.List)

		quizByID := api.Group("/quizzes/:id")
		quizByID.Use(middleware.ExtractUintParam("id", "quizID"))
		{
			quizByID.GET("", quizHandler.Get)

			authedQuiz := quizByID.Group("")
			authedQuiz.Use(authMiddleware.RequireAuth())
			{
				authedQuiz.POST("/submit", limit(middleware.SubmitRateLimitConfig()), quizHandler.Submit)
				authedQuiz.POST("/session", sessionHandler.Start)
			}
		}

		// Личные данные
		userByID := api.Group("/users/:id")
		userByID.Use(authMiddleware.RequireAuth(), middleware.ExtractUintParam("id", "userID"))
		{
			userByID.GET("", userHandler.GetUser)
			userByID.GET("/stats", userHandler.GetUserStats)
			userByID.GET("/progress", userHandler.GetUserProgress)
		}

		// Сессии прохождения
		sessions := api.Group("/sessions/:id")
		sessions.Use(authMiddleware.RequireAuth())
		{
			sessions.GET("", sessionHandler.Get)
			sessions.POST("/answer", sessionHandler.Answer)
			sessions.POST("/next", sessionHandler.Next)
			sessions.POST("/prev", sessionHandler.Prev)
			sessions.POST("/submit", sessionHandler.Submit)
			sessions.GET("/ws", wsHandler.StreamTicks)
		}

		// Экспорт результатов
		api.GET("/stats/export", authMiddleware.RequireAuth(), statsHandler.Export)
	}

	// HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
