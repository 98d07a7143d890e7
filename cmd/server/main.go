package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/projectpulse/projectpulse/internal/adapter/cache"
	httpadapter "github.com/projectpulse/projectpulse/internal/adapter/http"
	"github.com/projectpulse/projectpulse/internal/adapter/persistence"
	"github.com/projectpulse/projectpulse/internal/audit"
	"github.com/projectpulse/projectpulse/internal/config"
	"github.com/projectpulse/projectpulse/internal/logger"
	"github.com/projectpulse/projectpulse/internal/ports"
	"github.com/projectpulse/projectpulse/internal/usecase"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	appLog.WithField("env", cfg.Server.Environment).Info("application starting")

	// Connect to the authoritative entity store
	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		appLog.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		appLog.WithError(err).Fatal("failed to ping database")
	}
	appLog.Info("database connection established")

	// Connect to the cache backend. An unreachable Redis is not fatal:
	// reads degrade to direct store lookups.
	var entityCache ports.EntityCache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		appLog.WithError(err).Warn("redis unreachable, running without cache")
		entityCache = cache.NewNoopCache()
	} else {
		appLog.WithField("addr", cfg.RedisAddr()).Info("cache connection established")
		entityCache = cache.NewCoordinator(redisClient, appLog)
	}

	// Repositories
	projectRepo := persistence.NewPostgresProjectRepository(db)
	taskRepo := persistence.NewPostgresTaskRepository(db)
	developerRepo := persistence.NewPostgresDeveloperRepository(db)
	auditRepo := persistence.NewPostgresAuditRepository(db)

	// Use cases
	recorder := audit.NewRecorder(auditRepo, appLog)
	projectUseCase := usecase.NewProjectUseCase(projectRepo, entityCache, recorder, appLog)
	taskUseCase := usecase.NewTaskUseCase(taskRepo, projectRepo, developerRepo, entityCache, recorder, appLog)
	developerUseCase := usecase.NewDeveloperUseCase(developerRepo, entityCache, recorder, appLog)
	auditUseCase := usecase.NewAuditUseCase(auditRepo, appLog)

	// HTTP server
	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		httpadapter.NewProjectHandler(projectUseCase),
		httpadapter.NewTaskHandler(taskUseCase),
		httpadapter.NewDeveloperHandler(developerUseCase),
		httpadapter.NewAuditHandler(auditUseCase),
		appLog,
	)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("graceful shutdown failed")
	}

	appLog.Info("application stopped")
}
