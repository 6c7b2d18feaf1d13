package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pau-interconnect/cv-analyzer/internal/application"
	"github.com/pau-interconnect/cv-analyzer/internal/application/analyses"
	"github.com/pau-interconnect/cv-analyzer/internal/config"
	"github.com/pau-interconnect/cv-analyzer/internal/domain/analyze"
	domusers "github.com/pau-interconnect/cv-analyzer/internal/domain/users"
	aiclient "github.com/pau-interconnect/cv-analyzer/internal/infra/ai/openai"
	"github.com/pau-interconnect/cv-analyzer/internal/infra/db/jsonstore"
	mysqldb "github.com/pau-interconnect/cv-analyzer/internal/infra/db/mysql"
	postgresdb "github.com/pau-interconnect/cv-analyzer/internal/infra/db/postgres"
	"github.com/pau-interconnect/cv-analyzer/internal/infra/extract"
	"github.com/pau-interconnect/cv-analyzer/internal/infra/httpserver"
	"github.com/pau-interconnect/cv-analyzer/internal/infra/storage"
	"github.com/pau-interconnect/cv-analyzer/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "cv-analyzer").Logger()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	ctx := context.Background()

	// record store driver
	var repo domusers.Repository
	checkers := map[string]middleware.HealthChecker{}
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("mysql connect error")
		}
		defer db.Close()
		repo = mysqldb.NewUserRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect error")
		}
		defer db.Close()
		repo = postgresdb.NewUserRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	default:
		repo = jsonstore.New(cfg.Storage.UsersFile)
		checkers["store"] = &middleware.FileStoreHealthChecker{Path: cfg.Storage.UsersFile}
	}

	// optional upload mirror
	var mirror analyze.ObjectMirror
	if cfg.Storage.S3.Enabled {
		m, err := storage.NewMinioMirror(ctx,
			cfg.Storage.S3.Endpoint,
			cfg.Storage.S3.Region,
			cfg.Storage.S3.BucketName,
			cfg.Storage.S3.AccessKey,
			cfg.Storage.S3.SecretKey,
			cfg.Storage.S3.UseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("minio init error")
		}
		mirror = m
	}

	svc := &analyses.Service{
		Uploads:   storage.NewLocal(cfg.Storage.UploadDir),
		Extractor: extract.NewPDF(),
		AI:        aiclient.NewClient(cfg.APIKey(), cfg.AI.BaseURL, cfg.AI.Model),
		Users:     repo,
		Mirror:    mirror,
		Clock:     application.SystemClock{},
		AITimeout: cfg.AITimeout(),
		Log:       log,
	}

	handler := httpserver.NewRouter(svc, cfg.Server.CORSOrigin, checkers, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Info().Str("addr", addr).Str("storage", cfg.Storage.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
