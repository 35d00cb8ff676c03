// Package main is the entry point for the Resume Review API server.
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

	"github.com/Shimizu-Technology/resume-review-api/internal/config"
	"github.com/Shimizu-Technology/resume-review-api/internal/database"
	"github.com/Shimizu-Technology/resume-review-api/internal/handlers"
	"github.com/Shimizu-Technology/resume-review-api/internal/middleware"
	"github.com/Shimizu-Technology/resume-review-api/internal/router"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/events"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/notify"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/pdf"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/review"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/storage"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/validation"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/worker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 Resume Review API %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, workers=%d, gin_mode=%s, provider=%s",
		cfg.Port, cfg.WorkerCount, cfg.GinMode, cfg.ReviewProvider)

	os.Setenv("GIN_MODE", cfg.GinMode)

	// Already validated by config.Load
	location, _ := time.LoadLocation(cfg.RosterTimezone)

	// Step 2: Connect to Database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✅ Database connected")

	// Run migrations
	if err := db.RunMigrations("migrations"); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// Step 3: Create Services
	policy := pdf.DefaultLinePolicy()
	policy.PageSeparator = cfg.PageSeparator
	extractor := pdf.NewExtractor(policy)

	ctx := context.Background()
	reviewer, err := newReviewer(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to create reviewer: %v", err)
	}

	notifier := notify.New(cfg.DiscordWebhookURL)
	if notifier.Enabled() {
		log.Println("✅ Discord notifications enabled")
	} else {
		log.Println("⚠️  Discord notifications disabled (set DISCORD_WEBHOOK_URL to enable)")
	}

	store, err := storage.New(ctx, storage.Config{
		Endpoint:      cfg.S3Endpoint,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Region:        cfg.S3Region,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("❌ Failed to set up resume storage: %v", err)
	}
	if store.Enabled() {
		log.Printf("✅ Resume uploads go to bucket %s", cfg.S3Bucket)
	} else {
		log.Println("⚠️  Resume uploads disabled (set S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY)")
	}

	// Events are optional; a broker outage shouldn't keep students out.
	publisher, err := events.New(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("⚠️  Event publishing disabled: %v", err)
		publisher, _ = events.New("")
	}
	defer publisher.Close()

	// Step 4: Create and Start Worker Pool
	wp := worker.NewPool(cfg.WorkerCount, cfg.JobQueueSize, db, notifier, publisher)
	wp.Start()

	if cfg.AdminAPIKey != "" {
		log.Println("✅ Admin API key configured (roster management protected)")
	} else {
		log.Println("⚠️  No admin API key set (admin routes are disabled; set ADMIN_API_KEY)")
	}
	if !cfg.RateLimitEnabled {
		log.Println("⚠️  Review cooldown disabled (RATE_LIMIT_ENABLED=false)")
	}

	// Step 5: Setup HTTP Router
	h := &handlers.Handler{
		DB:             db,
		Worker:         wp,
		Extractor:      extractor,
		Checker:        validation.NewChecker(extractor),
		Reviewer:       reviewer,
		Notifier:       notifier,
		Storage:        store,
		Events:         publisher,
		JWTSecret:      cfg.JWTSecret,
		RosterLocation: location,
	}
	rateLimiter := middleware.NewRateLimiter(cfg.RequestsPerHour, cfg.AdminAPIKey)
	r := router.Setup(h, cfg, rateLimiter)

	// Step 6: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // AI reviews can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 7: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	// Handlers still running after a timed-out Shutdown get ErrPoolStopped.
	wp.Stop()
	rateLimiter.Stop()

	notifier.Shutdown()
	log.Println("⏳ Discord deliveries signaled to stop")

	log.Println("👋 Server stopped. Goodbye!")
}

// newReviewer picks the AI provider named in the config.
func newReviewer(ctx context.Context, cfg *config.Config) (review.Reviewer, error) {
	switch cfg.ReviewProvider {
	case config.ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			log.Println("⚠️  AI review disabled (set OPENROUTER_API_KEY to enable)")
		} else {
			log.Printf("🤖 AI review via OpenRouter (%s)", cfg.OpenRouterModel)
		}
		return review.NewOpenRouter(cfg.OpenRouterAPIKey, cfg.OpenRouterModel), nil
	default:
		if cfg.GeminiAPIKey == "" {
			log.Println("⚠️  AI review disabled (set GEMINI_API_KEY to enable)")
		} else {
			log.Printf("🤖 AI review via Gemini (%s)", cfg.GeminiModel)
		}
		return review.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}
