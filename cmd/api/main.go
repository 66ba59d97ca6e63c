package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"simple-atm/config"
	httpHandler "simple-atm/internal/adapter/http/handler"
	pgStorage "simple-atm/internal/adapter/storage/postgres"
	redisStorage "simple-atm/internal/adapter/storage/redis"
	"simple-atm/internal/core/domain"
	"simple-atm/internal/core/ports"
	"simple-atm/internal/service"
	"simple-atm/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// `api hash-password` reads a password on stdin and prints its argon2id
	// hash for admin.password_hash.
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(); err != nil {
			fmt.Fprintf(os.Stderr, "hash-password: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(os.Getenv("ATM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Bool("journal", cfg.Database.Enabled).
		Bool("redis", cfg.Redis.Enabled).
		Bool("admin", cfg.AdminEnabled()).
		Msg("Starting simple ATM")

	ctx := context.Background()
	var healthCheckers []ports.HealthChecker

	// Optional Postgres journal
	var journalRepo ports.JournalRepository
	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		repo := pgStorage.NewJournalRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare journal schema")
		}
		journalRepo = repo
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
	}

	// Optional Redis for idempotent replays and rate limiting
	var (
		idempotencyCache ports.IdempotencyCache
		rateLimitStore   *redisStorage.RateLimitStore
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		idempotencyCache = redisStorage.NewIdempotencyCache(rdb)
		if cfg.RateLimit.Enabled {
			rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		}
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	// Core services
	inventory := domain.NewInventory()
	journalSvc := service.NewJournalService(journalRepo, logger.Component(log, "journal"))
	atmSvc := service.NewATMService(inventory, journalSvc, idempotencyCache, logger.Component(log, "atm"))

	deps := httpHandler.RouterDeps{
		ATMSvc:         atmSvc,
		JournalSvc:     journalSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		Logger:         log,
	}
	if cfg.AdminEnabled() {
		tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
		deps.TokenSvc = tokenSvc
		deps.AdminSvc = service.NewAdminService(cfg.Admin.Username, cfg.Admin.PasswordHash, service.NewArgon2HashService(), tokenSvc)
	} else {
		log.Warn().Msg("admin.password_hash or jwt.secret not set, admin routes disabled")
	}

	router := httpHandler.SetupRouter(deps)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	journalSvc.Wait()

	log.Info().Msg("Server exited")
}

func hashPassword() error {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("empty password")
	}

	hash, err := service.NewArgon2HashService().Hash(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
