package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"threadboard/pkg/cache"
	"threadboard/pkg/config"
	"threadboard/pkg/database"
	"threadboard/pkg/jwt"
	"threadboard/pkg/logger"
	"threadboard/pkg/metrics"
	"threadboard/pkg/middleware"
	"threadboard/pkg/queue"
	blogHTTP "threadboard/services/blog/internal/controller/http"
	"threadboard/services/blog/internal/repo/persistent"
	"threadboard/services/blog/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "threadboard/services/blog/docs"
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithLevel(cfg.LogLevel)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (continuing without user cache)", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing without engagement events)", err)
		queueClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		queueClient: queueClient,
		jwtService:  jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL),
	}, nil
}

// Router wires repositories, use cases and handlers onto a gin engine.
func (a *App) Router() *gin.Engine {
	postRepo := persistent.NewPostRepository(a.db)
	commentRepo := persistent.NewCommentRepository(a.db)
	likeRepo := persistent.NewLikeRepository(a.db)
	karmaRepo := persistent.NewKarmaRepository(a.db)
	userRepo := persistent.NewUserRepository(a.db)
	if a.redisClient != nil {
		userRepo = persistent.NewCachedUserRepository(userRepo, a.redisClient, a.cfg.UserCacheTTL, a.log)
	}

	// A nil *queue.Client inside the interface would not compare equal to nil.
	var publisher usecase.EventPublisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}

	presenter := usecase.NewPresenter(likeRepo, time.Now)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, postRepo, presenter, publisher, a.log)
	postUseCase := usecase.NewPostUseCase(postRepo, commentUseCase, presenter, a.log)
	likeUseCase := usecase.NewLikeUseCase(likeRepo, postRepo, commentRepo, publisher, a.log)
	karmaUseCase := usecase.NewKarmaUseCase(karmaRepo, userRepo, a.log)

	handler := blogHTTP.NewBlogHandler(postUseCase, commentUseCase, likeUseCase, karmaUseCase, a.log)

	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware("blog"))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuthMiddleware(a.jwtService), blogHTTP.ViewerMiddleware(karmaUseCase, a.log))
	{
		api.GET("/posts", handler.ListPosts)
		api.GET("/posts/:id", handler.GetPost)
		api.GET("/posts/:id/comments", handler.ListComments)
		api.GET("/comments/:id", handler.GetComment)

		protected := api.Group("")
		protected.Use(middleware.RequireUser())
		{
			protected.POST("/posts", handler.CreatePost)
			protected.PUT("/posts/:id", handler.UpdatePost)
			protected.DELETE("/posts/:id", handler.DeletePost)
			protected.POST("/posts/:id/like", handler.TogglePostLike)
			protected.POST("/posts/:id/comments", handler.CreateComment)
			protected.POST("/comments/:id/replies", handler.CreateReply)
			protected.POST("/comments/:id/like", handler.ToggleCommentLike)
			protected.GET("/users/me/karma", handler.MyKarma)
		}
	}

	return r
}

func (a *App) Run() error {
	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.Info("Blog service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down blog service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}

	a.log.Info("Blog service exited")
	a.log.Sync()
	return nil
}
