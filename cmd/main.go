package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdf-chat-platform/internal/ai"
	"pdf-chat-platform/internal/config"
	"pdf-chat-platform/internal/logger"
	"pdf-chat-platform/internal/telemetry"
	"pdf-chat-platform/middleware"
	"pdf-chat-platform/routes"
	"pdf-chat-platform/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing is opt-in; the service runs fine without a collector
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("pdf-chat-platform", cfg.OTLPEndpoint)
		if err != nil {
			log.Fatal("Failed to init tracer:", err)
		}
		defer shutdown()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to init metrics:", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Redis backs the highlight cache and rate limiting; both degrade
	// gracefully without it
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache and rate limiting", "error", err)
		rdb = nil
	}

	// Gemini span extraction is optional; without a key the resolver
	// falls back to direct matching only
	var llm services.CompletionClient
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTier, metrics)
		if err != nil {
			log.Fatal("Failed to create Gemini client:", err)
		}
		defer geminiClient.Close()
		llm = geminiClient
	} else {
		logger.Warn("GEMINI_API_KEY not set, LLM span extraction disabled")
	}

	// Build the resolution pipeline
	chunks := mongoClient.Database(cfg.DBName).Collection(cfg.ChunksCollection)
	store := services.NewMongoChunkStore(chunks)
	locator := services.NewChunkLocator(store, cfg.MaxFallbackChunks)
	extractor := services.NewSpanExtractor(llm, time.Duration(cfg.LLMTimeout)*time.Second)

	var cache *services.HighlightCache
	if rdb != nil {
		cache = services.NewHighlightCache(rdb, time.Duration(cfg.HighlightCacheTTL)*time.Second)
	}

	resolver := services.NewHighlightResolver(locator, extractor, cache, metrics)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(otelgin.Middleware("pdf-chat-platform"))
	router.Use(middleware.MetricsMiddleware(metrics))
	if rdb != nil {
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	routes.SetupHighlightRoutes(router, cfg, resolver, cache, metrics)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
