package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/cors"
	_ "modernc.org/sqlite"

	"github.com/vibekrana/frontend-main/internal/config"
	"github.com/vibekrana/frontend-main/internal/handlers"
	"github.com/vibekrana/frontend-main/internal/middleware"
	"github.com/vibekrana/frontend-main/internal/oauth"
	"github.com/vibekrana/frontend-main/internal/session"
	"github.com/vibekrana/frontend-main/internal/upstream"
	"github.com/vibekrana/frontend-main/internal/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Root context for background workers and graceful shutdown
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}
	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Run migrations on startup
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		log.Fatalf("Failed to init migration driver: %v", err)
	}
	migrator, err := migrate.NewWithDatabaseInstance("file://db/migrations", "sqlite", driver)
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}
	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Database migration failed: %v", err)
	}
	log.Println("Database is up-to-date")

	sessions := session.NewManager(db, cfg.SessionTTL, log.Default())
	states := oauth.NewStateStore(db, cfg.OAuthStateTTL)
	attempts := oauth.NewRegistry(cfg.OAuthStateTTL)
	api := upstream.New(upstream.Options{
		BaseURL:        cfg.APIBaseURL,
		RPS:            cfg.APIRateLimitRPS,
		Burst:          cfg.APIRateLimitBurst,
		SurveyEndpoint: cfg.SurveyEndpointEnabled,
	})

	h := handlers.New(cfg, sessions, api, states, attempts, log.Default())
	guard := middleware.NewGuard(sessions, log.Default())
	r := h.Router(guard)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.PublicBaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(r)

	srv := &http.Server{
		Handler:      handler,
		Addr:         cfg.ListenAddr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Handle graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	cleanup := &workers.CleanupWorker{
		Sessions: sessions,
		States:   states,
		Attempts: attempts,
		Interval: 10 * time.Minute,
	}
	go cleanup.Start(rootCtx)

	go func() {
		<-stop
		log.Println("Shutting down server...")
		cancel()
		ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Dashboard listening on %s (api=%s)", cfg.ListenAddr, cfg.APIBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}
