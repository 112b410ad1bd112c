// Package main is the entry point for the Hamro Aawaz complaint backend.
// It provides a REST API for a citizen-municipality platform: account
// registration and login, complaint submission with photo evidence,
// complaint voting, and municipality activity feeds with a derived
// leaderboard.
//
// Architecture:
//   - Three JSON-file collections (users, complaints, municipalities), each
//     owned by one service holding one lock across load-mutate-save
//   - Stateless HMAC-signed bearer tokens; no session table
//   - Role-gated mutations (citizen | staff | admin, no hierarchy)
//   - Uploaded images go to a blob store and are served statically
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hamroaawaz/complaint-server/internal/auth"
	"github.com/hamroaawaz/complaint-server/internal/config"
	"github.com/hamroaawaz/complaint-server/internal/handlers"
	"github.com/hamroaawaz/complaint-server/internal/middleware"
	"github.com/hamroaawaz/complaint-server/internal/models"
	"github.com/hamroaawaz/complaint-server/internal/services"
	"github.com/hamroaawaz/complaint-server/internal/storage"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting Hamro Aawaz Complaint Server",
		"port", cfg.Port,
		"env", cfg.Environment,
		"data_dir", cfg.DataDir,
	)

	// Initialize file-backed storage
	store, err := storage.NewStore(cfg.DataDir)
	if err != nil {
		sugar.Fatalf("Failed to open data store: %v", err)
	}
	blobs, err := storage.NewBlobStore(cfg.UploadsDir)
	if err != nil {
		sugar.Fatalf("Failed to open blob store: %v", err)
	}

	// Optional Redis client for shared rate limiting
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	// Initialize services
	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	userSvc := services.NewUserService(store)
	complaintSvc := services.NewComplaintService(store, userSvc)
	muniSvc := services.NewMunicipalityService(store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userSvc, tokens, sugar)
	complaintHandler := handlers.NewComplaintHandler(complaintSvc, blobs, sugar)
	muniHandler := handlers.NewMunicipalityHandler(muniSvc, complaintSvc, userSvc, blobs, sugar)
	healthHandler := handlers.NewHealthHandler(store, rdb, sugar)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limiting (Redis-backed when configured)
	r.Use(middleware.RateLimit(cfg.RateLimitRPM, rdb))

	// Health checks
	r.Get("/health", healthHandler.Check)
	r.Get("/health/ready", healthHandler.Ready)

	// Authentication
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Get("/me", authHandler.Me)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Get("/users", authHandler.Users)
		})
	})

	// Complaints
	r.Route("/complaints", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Post("/", complaintHandler.Create)
		r.Get("/", complaintHandler.List)
		r.Post("/{complaintID}/upvote", complaintHandler.Upvote)
		r.Post("/{complaintID}/unvote", complaintHandler.Unvote)
	})

	// Municipality feeds and staff actions
	r.Route("/municipality", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Get("/", muniHandler.List)
		r.Get("/activities", muniHandler.Activities)
		r.Get("/leaderboard", muniHandler.Leaderboard)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleStaff))
			r.Post("/post-action", muniHandler.PostAction)
			r.Post("/update-complaint-status", muniHandler.UpdateComplaintStatus)
		})
	})

	// Serve uploaded images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(blobs.Dir()))))

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}
