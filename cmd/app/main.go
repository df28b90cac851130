package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"payments-chat-backend/docs"
	"payments-chat-backend/internal/common/cache"
	"payments-chat-backend/internal/common/config"
	"payments-chat-backend/internal/common/logger"
	"payments-chat-backend/internal/common/middleware"
	directoryRepo "payments-chat-backend/internal/features/directory/repository"
	ledgerRepo "payments-chat-backend/internal/features/ledger/repository/redis"
	ledgerService "payments-chat-backend/internal/features/ledger/service"
	receiptService "payments-chat-backend/internal/features/receipt/service"
	sessionHTTP "payments-chat-backend/internal/features/session/delivery/http"
	sessionService "payments-chat-backend/internal/features/session/service"
	transferService "payments-chat-backend/internal/features/transfer/service"
	"payments-chat-backend/internal/platform/paymentsapi"
	"payments-chat-backend/internal/platform/redis"
	"payments-chat-backend/internal/workers"
)

const serviceName = "payments-chat-backend"

// @title           Payments Chat API
// @version         1.0
// @description     Chat-driven payments dashboard. Transfers are typed as commands, paid through the payments API and confirmed with a PDF receipt.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey SessionToken
// @in header
// @name Authorization
// @description "Bearer <token>" as returned by /auth/login. The session cookie is accepted as well.

// @tag.name auth
// @tag.description Login, sign-up and logout

// @tag.name dashboard
// @tag.description Balance and transaction history

// @tag.name chat
// @tag.description Transfer conversation and receipts

func main() {
	cfg := config.Load()

	logger.Init(serviceName, cfg.Debug)
	log.Info().Bool("debug", cfg.Debug).Msg("Starting payments chat backend")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	directory, err := directoryRepo.Load(cfg.Directory.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Directory.Path).Msg("Failed to load user directory")
	}
	log.Info().Int("users", len(directory.All())).Msg("User directory loaded")

	store := ledgerRepo.NewStore(redisClient.Client)
	ledger := ledgerService.NewLedger(store, store, logger.Component("ledger"))
	api := paymentsapi.NewClient(cfg.PaymentsAPI.BaseURL, cfg.PaymentsAPI.Timeout, logger.Component("payments_api"))
	cacheService := cache.NewCacheService(redisClient.Client)

	queue := workers.NewBalanceSyncQueue(redisClient.Client, cfg.Workers.BalanceSyncStream)
	resolver := transferService.NewResolver(directory, api, logger.Component("resolver"))
	dispatcher := transferService.NewDispatcher(api, ledger, queue, cfg.PaymentsAPI.StoreName, logger.Component("dispatcher"))
	receipts := receiptService.NewGenerator(api, logger.Component("receipts"),
		receiptService.WithUserCache(cacheService, cfg.Receipt.UserCacheTTL),
	)

	sessionSvc := sessionService.NewService(api, store, ledger,
		sessionService.ConversationDeps{
			Resolver:   resolver,
			Dispatcher: dispatcher,
			Receipts:   receipts,
		},
		sessionService.Config{
			TTL:          cfg.Session.TTL,
			PollInterval: cfg.Session.PollInterval,
			PollCooldown: cfg.Session.PollCooldown,
		},
		logger.Component("sessions"),
	)

	worker := workers.NewBalanceSyncWorker(redisClient.Client, api,
		cfg.Workers.BalanceSyncStream, cfg.Workers.BalanceSyncGroup, logger.Component("balance_sync"))
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	log.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(middleware.ErrorHandler(logger.Component("http")))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	setupRoutes(router, sessionSvc, redisClient, !cfg.Debug)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No write timeout: /events holds its response open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Sessions close first so /events streams return and Shutdown can finish.
	sessionSvc.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Receivables still in flight get to finish before Redis goes away.
	dispatcher.Wait()
	cancel()
	<-workerDone

	log.Info().Msg("Server exited")
}

func setupRoutes(router *gin.Engine, sessionSvc *sessionService.Service, redisClient *redis.Client, secureCookie bool) {
	v1 := router.Group("/api/v1")
	sessionHTTP.NewSessionHandler(sessionSvc, logger.Component("session_handler"), secureCookie).RegisterRoutes(v1)

	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})
}
