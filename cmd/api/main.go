package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/loadbroker/backend/internal/api/handlers"
	"github.com/loadbroker/backend/internal/catalog"
	"github.com/loadbroker/backend/internal/fmcsa"
	"github.com/loadbroker/backend/internal/metrics"
	"github.com/loadbroker/backend/internal/middleware/auth"
	"github.com/loadbroker/backend/internal/middleware/ratelimit"
	"github.com/loadbroker/backend/internal/middleware/security"
	"github.com/loadbroker/backend/internal/negotiation"
	"github.com/loadbroker/backend/internal/observability"
	"github.com/loadbroker/backend/pkg/config"
	appLogger "github.com/loadbroker/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting inbound carrier API server")

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	observability.Init()

	cat, err := catalog.NewCatalog(cfg.Loads.Path)
	if err != nil {
		appLogger.Fatal("Failed to build load catalog", zap.Error(err))
	}

	offersSink, err := negotiation.NewSink(cfg.Events.OffersPath, "offer")
	if err != nil {
		appLogger.Fatal("Failed to open offers log", zap.Error(err))
	}
	defer offersSink.Close()

	summariesSink, err := negotiation.NewSink(cfg.Events.SummariesPath, "call_summary")
	if err != nil {
		appLogger.Fatal("Failed to open call summaries log", zap.Error(err))
	}
	defer summariesSink.Close()

	aggregator := metrics.NewAggregator()

	offersReplayed, err := negotiation.Replay(cfg.Events.OffersPath, aggregator.RecordOffer)
	if err != nil {
		appLogger.Fatal("Failed to replay offers log", zap.Error(err))
	}
	summariesReplayed, err := negotiation.Replay(cfg.Events.SummariesPath, aggregator.RecordSummary)
	if err != nil {
		appLogger.Fatal("Failed to replay call summaries log", zap.Error(err))
	}
	appLogger.Info("Event history replayed",
		zap.Int("offers", offersReplayed),
		zap.Int("summaries", summariesReplayed),
	)

	var carrierCache *fmcsa.Cache
	if cfg.Redis.Enabled {
		carrierCache, err = fmcsa.NewCache(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Carrier cache unavailable, continuing without it", zap.Error(err))
			carrierCache = nil
		} else {
			defer carrierCache.Close()
		}
	}

	registry := fmcsa.NewClient(
		cfg.FMCSA.BaseURL,
		cfg.FMCSA.WebKey,
		time.Duration(cfg.FMCSA.TimeoutSec)*time.Second,
		cfg.FMCSA.MaxAttempts,
		carrierCache,
	)

	carrierHandler := handlers.NewCarrierHandler(registry)
	loadsHandler := handlers.NewLoadsHandler(cat)
	eventsHandler := handlers.NewEventsHandler(offersSink, summariesSink, aggregator)
	metricsHandler := handlers.NewMetricsHandler(aggregator, cfg.Auth.APIKey)
	streamHandler := handlers.NewMetricsStreamHandler(aggregator, 2*time.Second)

	rateLimiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.Log,
	})
	defer rateLimiter.Stop()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, x-api-key",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(observability.Middleware())
	app.Use(rateLimiter.Middleware())
	// The dashboard stays behind auth: it embeds the API key for its own
	// /metrics fetches.
	app.Use(auth.APIKey(cfg.Auth.APIKey, "/healthz"))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok": true,
			"ts": time.Now().Unix(),
		})
	})

	api := app.Group("/api/v1")
	api.Get("/carriers/find", carrierHandler.FindCarrier)
	api.Get("/loads", loadsHandler.SearchLoads)
	api.Post("/loads/reload", loadsHandler.ReloadLoads)
	api.Post("/offers/log", eventsHandler.LogOffer)

	app.Post("/events/call-summary", eventsHandler.LogCallSummary)

	app.Get("/metrics", metricsHandler.GetMetrics)
	app.Get("/dash", metricsHandler.Dashboard)
	app.Get("/internal/metrics", observability.Handler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/metrics", websocket.New(streamHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
