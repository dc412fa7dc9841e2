package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"factfake_backend/internal/config"
	"factfake_backend/internal/controller"
	"factfake_backend/internal/repository"
	"factfake_backend/internal/service"
	"factfake_backend/pkg/configwatcher"
	"factfake_backend/pkg/database"
	"factfake_backend/pkg/logger"
	"factfake_backend/pkg/monitoring"
	"factfake_backend/pkg/security"
	"factfake_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	question   *repository.QuestionRepository
	answer     *repository.AnswerRepository
	dailySet   *repository.DailySetRepository
	collection *repository.CollectionRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	selector    *service.SelectorService
	game        *service.GameService
	dailySet    *service.DailySetService
	collection  *service.CollectionService
	leaderboard *service.LeaderboardService
	sessions    service.SessionStore
}

type controllers struct {
	auth        *controller.AuthController
	game        *controller.GameController
	dailySet    *controller.DailySetController
	collection  *controller.CollectionController
	leaderboard *controller.LeaderboardController
	question    *controller.QuestionController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		question:   repository.NewQuestionRepository(db),
		answer:     repository.NewAnswerRepository(db),
		dailySet:   repository.NewDailySetRepository(db),
		collection: repository.NewCollectionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	// 会话存储按配置选型：单实例内存即可，多副本部署切 redis
	switch cfg.Session.Store {
	case "redis":
		s.sessions = service.NewRedisSessionStore(rdb, ttl)
	default:
		s.sessions = service.NewMemorySessionStore(ttl)
	}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.selector = service.NewSelectorService(repos.question, repos.answer)
	s.game = service.NewGameService(repos.question, repos.answer, repos.user, s.selector, db)
	s.dailySet = service.NewDailySetService(repos.dailySet, repos.question, repos.answer, repos.user, db, cfg.Game.DailySetSize)
	s.collection = service.NewCollectionService(repos.collection, repos.question, repos.answer, repos.user, s.selector, s.sessions, db)
	s.leaderboard = service.NewLeaderboardService(repos.answer, repos.user)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		game:        controller.NewGameController(s.game),
		dailySet:    controller.NewDailySetController(s.dailySet),
		collection:  controller.NewCollectionController(s.collection),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		question:    controller.NewQuestionController(repos.question),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// 内存会话存储靠定时清理回收过期会话；redis 由键 TTL 自理，Sweep 为空操作
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			swept, err := s.sessions.Sweep(context.Background())
			if err != nil {
				logger.Log.Error("session sweep error", zap.Error(err))
				continue
			}
			if swept > 0 {
				monitoring.SessionCounter.WithLabelValues("expired").Add(float64(swept))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("factfake-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)

	// 配置热更新：变更后触发已注册的回调
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		logger.Log.Info("Config reloaded")
		for _, callback := range app.configCallbacks {
			callback(reloaded)
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
