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

	"vintelli-api/internal/cache"
	"vintelli-api/internal/config"
	"vintelli-api/internal/estimator"
	"vintelli-api/internal/handler"
	"vintelli-api/internal/repository"
	"vintelli-api/internal/router"
	"vintelli-api/internal/scraper"
	"vintelli-api/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Vintelli API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	var deps []handler.Dependency

	// Initialize reference repository based on config
	var referenceRepo repository.ReferenceRepository
	switch cfg.ReferenceDB.Type {
	case "postgres", "postgresql":
		pgRepo, err := repository.NewPostgresReferenceRepository(cfg.ReferenceDB.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		defer pgRepo.Close()
		referenceRepo = pgRepo
		log.Println("PostgreSQL reference repository initialized")
	case "mysql":
		mysqlRepo, err := repository.NewMySQLReferenceRepository(cfg.ReferenceDB.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL: %v", err)
		}
		defer mysqlRepo.Close()
		referenceRepo = mysqlRepo
		log.Println("MySQL reference repository initialized")
	case "sqlite":
		sqliteRepo, err := repository.NewSQLiteReferenceRepository(cfg.ReferenceDB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		defer sqliteRepo.Close()
		referenceRepo = sqliteRepo
		log.Println("SQLite reference repository initialized")
	default: // builtin
	}
	if referenceRepo != nil {
		deps = append(deps, handler.Dependency{Name: "reference_db", Ping: referenceRepo.Ping})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dataset, err := service.LoadReferenceDataset(ctx, referenceRepo, cfg.ReferenceDB.Seed)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load reference data: %v", err)
	}

	// Initialize result cache (optional)
	var backend cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, caching disabled: %v", err)
		} else {
			backend = redisCache
			deps = append(deps, handler.Dependency{Name: "redis", Ping: redisCache.Ping})
			log.Println("Redis result cache initialized")
		}
	case "memory":
		backend = cache.NewMemoryCache(time.Minute)
		log.Println("In-memory result cache initialized")
	}
	if backend != nil {
		defer backend.Close()
	}
	resultCache := cache.NewResultCache(backend, cfg.Cache.TTL)

	// Initialize estimators
	local := estimator.NewLocalEstimator()

	var remote estimator.Estimator
	if cfg.LLM.Enabled() {
		remoteEstimator, err := estimator.NewRemoteEstimator(estimator.RemoteConfig{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, local)
		if err != nil {
			log.Printf("Warning: remote estimator disabled: %v", err)
		} else {
			remote = remoteEstimator
			log.Printf("Remote estimator initialized (model %s)", remoteEstimator.Model())
		}
	} else {
		log.Println("OPENAI_API_KEY not set, using local estimates only")
	}

	// Initialize services
	analyzer, err := service.NewAnalyzerService(service.AnalyzerConfig{
		Fetcher: scraper.NewCollyFetcher(scraper.FetcherConfig{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   cfg.Fetch.Timeout,
		}),
		Dataset:      dataset,
		Local:        local,
		Remote:       remote,
		Cache:        resultCache,
		HostPattern:  cfg.Marketplace.HostPattern,
		FetchTimeout: cfg.Fetch.Timeout,
		Debug:        cfg.App.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to initialize analyzer: %v", err)
	}

	// Initialize handlers
	healthHandler := handler.New(cfg.App.Name, cfg.App.Version, deps...)
	analyzeHandler := handler.NewAnalyzeHandler(analyzer)
	adminHandler := handler.NewAdminHandler(analyzer, referenceRepo, handler.AdminInfo{
		ReferenceSource: cfg.ReferenceDB.Type,
		CacheType:       cfg.Cache.Type,
		CacheTTL:        cfg.Cache.TTL,
		LLMModel:        cfg.LLM.Model,
	})
	pageHandler, err := handler.NewPageHandler(handler.PageData{
		AppName:       "Vintelli",
		Version:       cfg.App.Version,
		RemoteEnabled: analyzer.RemoteEnabled(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize page handler: %v", err)
	}

	// Create router
	r := router.New(router.Config{
		Handler:        healthHandler,
		PageHandler:    pageHandler,
		AnalyzeHandler: analyzeHandler,
		AdminHandler:   adminHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
