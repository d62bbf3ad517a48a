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

	"github.com/ezcall100/logistics-lynx-api/internal/config"
	"github.com/ezcall100/logistics-lynx-api/internal/handler"
	"github.com/ezcall100/logistics-lynx-api/internal/middleware"
	pgRepo "github.com/ezcall100/logistics-lynx-api/internal/repository/postgres"
	redisRepo "github.com/ezcall100/logistics-lynx-api/internal/repository/redis"
	"github.com/ezcall100/logistics-lynx-api/internal/service"
	ws "github.com/ezcall100/logistics-lynx-api/internal/websocket"
	"github.com/ezcall100/logistics-lynx-api/pkg/auth"
	"github.com/ezcall100/logistics-lynx-api/pkg/database"
)

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

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	documentRepo := pgRepo.NewLegalDocumentRepo(db)
	signatureRepo := pgRepo.NewUserSignatureRepo(db)
	ackRepo := pgRepo.NewLegalAcknowledgmentRepo(db)
	auditLogRepo := pgRepo.NewAuditLogRepo(db)
	legalAuditRepo := pgRepo.NewLegalAuditRepo(db)
	userRepo := pgRepo.NewUserRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Контекст жизненного цикла фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Живая лента портала аудита (WebSocket)
	var auditFeed *ws.Hub
	if cfg.Legal.LiveFeedEnabled {
		auditFeed = ws.NewHub()
		go auditFeed.Run(ctx)
		log.Println("Лента аудита (WebSocket) включена")
	}

	// Письма о завершении согласий
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v. Письма отключены.", err)
		} else {
			emailService = resendService
		}
	}

	// Инициализируем сервисы
	documentService := service.NewDocumentService(
		documentRepo,
		cacheRepo,
		time.Duration(cfg.Legal.DocumentCacheTTLSec)*time.Second,
	)

	var feed service.AuditFeed
	if auditFeed != nil {
		feed = auditFeed
	}
	ackService := service.NewAcknowledgmentService(
		signatureRepo,
		ackRepo,
		documentRepo,
		auditLogRepo,
		userRepo,
		emailService,
		feed,
	)
	wizardService := service.NewWizardService(documentService, ackService, cacheRepo)
	auditService := service.NewAuditService(legalAuditRepo, ackRepo)

	// Токены доступа для админских маршрутов
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpirationHrs)*time.Hour)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем обработчики
	documentHandler := handler.NewDocumentHandler(documentService)
	consentHandler := handler.NewConsentHandler(ackService, wizardService)
	auditHandler := handler.NewAuditHandler(auditService, auditFeed)

	// Настраиваем Gin
	router := gin.Default()

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://portal.logisticslynx.com", "https://admin.logisticslynx.com", "http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		legal := api.Group("/legal")
		legal.Use(rateLimiter.Limit(middleware.DefaultConsentRateLimitConfig()))
		{
			// Реестр документов
			legal.GET("/documents", documentHandler.GetActiveDocuments)
			legal.GET("/documents/:type", documentHandler.GetDocumentByType)
			legal.GET("/documents/:type/latest", documentHandler.GetLatestVersion)
			legal.POST("/versions/check", documentHandler.CheckVersions)

			// Статус согласия пользователя
			legal.GET("/consent/:userId/status",
				middleware.ExtractUintParam("userId", "user_id_param"),
				consentHandler.ConsentStatus)

			// Фиксация подтверждений (строгий лимит: идемпотентность не гарантируется)
			capture := legal.Group("")
			capture.Use(rateLimiter.Limit(middleware.StrictCaptureRateLimitConfig()))
			{
				capture.POST("/acknowledgments", consentHandler.Capture)
				capture.POST("/acknowledgments/batch", consentHandler.CaptureBatch)
			}

			// Сессии мастера согласий
			wizard := legal.Group("/wizard/sessions")
			{
				wizard.POST("", consentHandler.StartWizard)
				wizard.GET("/:id", consentHandler.GetWizard)
				wizard.POST("/:id/events", consentHandler.WizardEvent)
				wizard.POST("/:id/submit", consentHandler.WizardSubmit)
			}
		}

		// Портал аудита (только администраторы)
		admin := api.Group("/admin/legal")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.GET("/audit", auditHandler.ListRollups)
			admin.GET("/audit/export", auditHandler.ExportRollups)
			admin.GET("/audit/live", auditHandler.LiveFeed)
			admin.GET("/audit/:userId",
				middleware.ExtractUintParam("userId", "user_id_param"),
				auditHandler.UserDetail)
			admin.POST("/documents", documentHandler.PublishDocument)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// После получения сигнала SIGINT или SIGTERM вызываем cancel() для завершения горутин
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Отправляем сигнал завершения для всех горутин (включая ленту аудита)
	cancel()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
