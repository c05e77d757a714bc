package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"picword_backend/internal/config"
	"picword_backend/internal/controller"
	"picword_backend/internal/middleware"
	"picword_backend/internal/repository"
	"picword_backend/internal/service"
	"picword_backend/pkg/logger"
	"picword_backend/pkg/monitoring"
	"picword_backend/pkg/security"
	"picword_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Router *gin.Engine

	tracerProvider *sdktrace.TracerProvider
}

type repositories struct {
	level  *repository.LevelRepository
	record *repository.RecordRepository
}

type services struct {
	gemini   *service.GeminiService
	image    *service.ImageService
	feedback *service.FeedbackService
}

type controllers struct {
	page     *controller.PageController
	feedback *controller.FeedbackController
	image    *controller.ImageController
	health   *controller.HealthController
}

func (a *App) initRepositories(cfg *config.Config) *repositories {
	levels, err := repository.NewLevelRepository(cfg.Levels.Path)
	if err != nil {
		logger.Log.Fatal("Failed to load level definitions", zap.Error(err))
	}

	return &repositories{
		level:  levels,
		record: repository.NewRecordRepository(cfg.Record.Path),
	}
}

func (a *App) initServices(cfg *config.Config) *services {
	s := &services{}

	s.gemini = service.NewGeminiService(cfg.AI)
	s.image = service.NewImageService(cfg.Image)
	s.feedback = service.NewFeedbackService(s.gemini)

	return s
}

func (a *App) initControllers(s *services, repos *repositories) *controllers {
	return &controllers{
		page:     controller.NewPageController(),
		feedback: controller.NewFeedbackController(s.feedback, repos.level, repos.record),
		image:    controller.NewImageController(s.image, repos.record),
		health:   controller.NewHealthController(repos.level),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(middleware.RequestID())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分散式追蹤中間件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	app := &App{
		Config: cfg,
	}

	repos := app.initRepositories(cfg)
	services := app.initServices(cfg)
	controllers := app.initControllers(services, repos)

	// 監控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("picword-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	router.LoadHTMLGlob("templates/*.html")
	router.Static("/static", "./static")

	app.registerRoutes(router, controllers)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 啟動服務
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中斷信號優雅地關閉（5 秒超時）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
