package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/moviehub-app/backend/internal/auth"
	"github.com/moviehub-app/backend/internal/comments"
	"github.com/moviehub-app/backend/internal/config"
	"github.com/moviehub-app/backend/internal/middleware"
	"github.com/moviehub-app/backend/internal/movies"
	"github.com/moviehub-app/backend/internal/reports"
	"github.com/moviehub-app/backend/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.MongoDB)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	users := store.NewUsers(db)
	sessions := store.NewSessions(db)
	commentStore := store.NewComments(db)
	movieLookup := movies.NewLookup(db)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	sessionCache := auth.NewSessionCache(rdb, auth.DefaultCacheTTL)

	// ── MinIO ────────────────────────────────────────────────
	avatars, err := store.NewAvatars(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Services ─────────────────────────────────────────────
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
	authSvc := auth.NewService(users, sessions, auth.NewHasher())
	authn := auth.NewAuthenticator(tokens, sessionCache, sessions)
	commentSvc := comments.NewService(commentStore, movieLookup)
	reportSvc := reports.NewService(commentStore)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(authSvc, users, tokens, sessionCache, avatars)
	movieHandler := movies.NewHandler(movieLookup)
	commentHandler := comments.NewHandler(commentSvc, users)
	reportHandler := reports.NewHandler(reportSvc)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	requireAuth := middleware.RequireAuth(authn)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth + account routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(requireAuth).Post("/logout", authHandler.Logout)
		r.With(requireAuth).Get("/me", authHandler.Me)
		r.With(requireAuth).Put("/preferences", authHandler.UpdatePreferences)
		r.With(requireAuth).Delete("/account", authHandler.DeleteAccount)
	})

	// Profile routes
	r.Route("/api/users", func(r chi.Router) {
		r.Use(requireAuth)
		r.Put("/avatar", authHandler.UploadAvatar)
		r.Get("/avatar", authHandler.GetAvatar)
		r.Delete("/avatar", authHandler.DeleteAvatar)
		r.Put("/{email}/admin", authHandler.PromoteAdmin)
	})

	// Movie + comment routes
	r.Route("/api/movies", func(r chi.Router) {
		r.Get("/{id}", movieHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/{id}/comments", commentHandler.Create)
			r.Put("/{id}/comments/{cid}", commentHandler.Update)
			r.Delete("/{id}/comments/{cid}", commentHandler.Delete)
		})
	})

	// Reporting
	r.Get("/api/reports/top-commenters", reportHandler.TopCommenters)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
