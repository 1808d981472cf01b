package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanaihang/mallsearch/internal/adapters/cache"
	"github.com/hanaihang/mallsearch/internal/adapters/database"
	"github.com/hanaihang/mallsearch/internal/adapters/search"
	"github.com/hanaihang/mallsearch/internal/adapters/telemetry"
	"github.com/hanaihang/mallsearch/internal/api/handlers"
	"github.com/hanaihang/mallsearch/internal/api/routes"
	"github.com/hanaihang/mallsearch/internal/application/services"
	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/providers"
	"github.com/hanaihang/mallsearch/internal/domain/repositories"
	"github.com/hanaihang/mallsearch/internal/infrastructure/clients/postgres"
	"github.com/hanaihang/mallsearch/internal/infrastructure/clients/redis"
	"github.com/hanaihang/mallsearch/internal/infrastructure/clients/typesense"
	"github.com/hanaihang/mallsearch/internal/infrastructure/observability"
	"github.com/hanaihang/mallsearch/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client; the engine falls back to an in-process cache
	// when Redis is unavailable
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		cacheProvider = cache.NewMemoryAdapter()
		log.Println("Search cache running in-process (Redis unavailable)")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Println("Redis client initialized successfully")
	}

	// Initialize adapters
	venueAdapter := database.NewVenueAdapter(pgClient)
	searchEventAdapter := database.NewSearchEventAdapter(pgClient)

	var businessRepo repositories.BusinessRepository = database.NewBusinessAdapter(pgClient)
	if cfg.Search.BusinessSource == "typesense" {
		typesenseClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Printf("Warning: Failed to initialize Typesense client, falling back to PostgreSQL search: %v", err)
		} else {
			adapter := search.NewTypesenseAdapter(typesenseClient)
			if err := typesenseClient.InitSchema(context.Background()); err != nil {
				log.Printf("Warning: Failed to init Typesense schema: %v", err)
			}
			businessRepo = adapter
			log.Println("Typesense client initialized successfully")
		}
	}

	// Initialize telemetry sink
	var sink providers.TelemetrySink = providers.NoopSink{}
	if cfg.Telemetry.Endpoint != "" {
		sink = telemetry.NewHTTPSink(cfg.Telemetry.Endpoint, cfg.Telemetry.Timeout)
		log.Println("Telemetry sink initialized successfully")
	}

	// Initialize services
	telemetryService := services.NewTelemetryService(entities.SLAThresholds{
		MedianLatencyMs: cfg.SLA.MedianLatencyMs,
		P95LatencyMs:    cfg.SLA.P95LatencyMs,
		P99LatencyMs:    cfg.SLA.P99LatencyMs,
		MinCacheHitRate: cfg.SLA.MinCacheHitRate,
		MaxEmptyRate:    cfg.SLA.MaxEmptyRate,
		MinLocationRate: cfg.SLA.MinLocationRate,
	}, sink)

	analyticsService := services.NewSearchAnalyticsService(searchEventAdapter)

	searchService := services.NewSearchService(
		services.NewVenueCandidateSource(venueAdapter, cfg.Search.MaxResultsPerSource),
		services.NewBusinessCandidateSource(businessRepo, cfg.Search.MaxResultsPerSource),
		services.NewResultUnifier(venueAdapter),
		services.NewSearchRankingService(),
		services.NewSearchCache(cacheProvider, cfg.Search.CacheTTL),
		telemetryService,
		analyticsService,
		metrics,
		cfg.Search.AdapterTimeout,
	)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	typeaheadHandler := handlers.NewTypeaheadHandler(func() *services.SearchController {
		return services.NewSearchController(searchService, cfg.Search.DebounceInterval)
	})
	performanceHandler := handlers.NewPerformanceHandler(telemetryService)
	analyticsHandler := handlers.NewAnalyticsHandler(telemetryService, analyticsService)

	// Set up router
	router := routes.NewRouter(
		searchHandler,
		typeaheadHandler,
		performanceHandler,
		analyticsHandler,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server. WriteTimeout is generous because the typeahead
	// stream holds its connection open.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
