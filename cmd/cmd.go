package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snapgram-backend/internal/config"
	"snapgram-backend/internal/handlers"
	"snapgram-backend/internal/media"
	"snapgram-backend/internal/middleware"
	"snapgram-backend/internal/repository"
	"snapgram-backend/internal/repository/memory"
	"snapgram-backend/internal/repository/mongodb"
	"snapgram-backend/internal/repository/postgres"
	"snapgram-backend/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	shutdownTimeout = 15 * time.Second
	authRateWindow  = time.Minute
)

// app holds the wired services shared by the server and the seeder
type app struct {
	cfg      *config.Config
	store    repository.Store
	health   func(ctx context.Context) error
	media    media.Store
	cleaner  *services.ImageCleaner
	tokens   *services.TokenService
	hub      *services.WSHub
	users    *services.UserService
	posts    *services.PostService
	comments *services.CommentService
}

// Run dispatches to the server or to a subcommand
func Run(args []string) {
	// Load configuration
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log)

	if len(args) > 0 && args[0] == "seed" {
		if err := runSeed(cfg, args[1:]); err != nil {
			log.Fatal().Err(err).Msg("Seeding failed")
		}
		return
	}

	serve(cfg)
}

func serve(cfg *config.Config) {
	ctx := context.Background()

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	deps := handlers.Deps{
		Users:           a.users,
		Posts:           a.posts,
		Comments:        a.comments,
		Tokens:          a.tokens,
		Hub:             a.hub,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		StrictOwnership: cfg.Auth.StrictOwnership,
		MaxUploadBytes:  cfg.Server.MaxUploadMB << 20,
		Health:          a.health,
	}
	if files, ok := a.media.(http.Handler); ok {
		deps.MediaFiles = files
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, rate limiter will fail open")
		}
		deps.AuthLimiter = middleware.NewRateLimiter(rdb, "auth", cfg.Redis.AuthLimit, authRateWindow)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, auth rate limiting disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handlers.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("driver", cfg.Database.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not closed by Shutdown
	a.hub.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	a.cleaner.Wait()

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
	}
	if err := a.store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to close store")
	}

	log.Info().Msg("Server exited")
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, health, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	mediaStore, err := openMedia(ctx, cfg)
	if err != nil {
		store.Close(ctx)
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		store:  store,
		health: health,
		media:  mediaStore,
		tokens: services.NewTokenService(cfg.Auth.AccessTokenSecret, cfg.Auth.RefreshTokenSecret),
		hub:    services.NewWSHub(),
	}
	a.cleaner = services.NewImageCleaner(mediaStore)

	// Initialize services
	a.users = services.NewUserService(store, mediaStore, a.cleaner, a.tokens, a.hub)
	a.posts = services.NewPostService(store, mediaStore, a.cleaner, a.hub)
	a.comments = services.NewCommentService(store, a.hub)

	return a, nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (repository.Store, func(context.Context) error, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(connectCtx, cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		store := mongodb.NewStore(client, cfg.Name)
		if err := store.EnsureIndexes(connectCtx); err != nil {
			store.Close(ctx)
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Name).Msg("MongoDB connection established")
		return store, func(ctx context.Context) error { return client.Ping(ctx, nil) }, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(connectCtx, cfg.URI, cfg.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(connectCtx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Msg("Database connection established")
		return postgres.NewStore(pool), pool.Ping, nil

	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return memory.NewStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func openMedia(ctx context.Context, cfg *config.Config) (media.Store, error) {
	if cfg.Media.Bucket == "" {
		if cfg.IsProduction() {
			return nil, errors.New("MEDIA_BUCKET is required in production")
		}
		log.Warn().Msg("MEDIA_BUCKET not set, keeping uploads in memory")
		return media.NewMemoryStore(fmt.Sprintf("http://localhost:%d/media", cfg.Server.Port)), nil
	}

	store, err := media.NewS3Store(ctx, cfg.Media)
	if err != nil {
		return nil, fmt.Errorf("failed to create media store: %w", err)
	}
	return store, nil
}

// setupLogger configures zerolog logger
func setupLogger(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	switch cfg.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
