package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/Skotchmaster/wine_catalog/internal/config"
	"github.com/Skotchmaster/wine_catalog/internal/events"
	"github.com/Skotchmaster/wine_catalog/internal/httpserver"
	"github.com/Skotchmaster/wine_catalog/internal/models"
	"github.com/Skotchmaster/wine_catalog/internal/qr"
	"github.com/Skotchmaster/wine_catalog/internal/repo"
	"github.com/Skotchmaster/wine_catalog/internal/service"
	"github.com/Skotchmaster/wine_catalog/internal/storage"
	pkgdb "github.com/Skotchmaster/wine_catalog/pkg/db"
	"github.com/Skotchmaster/wine_catalog/pkg/hash"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	"github.com/Skotchmaster/wine_catalog/pkg/tokens"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Service:     cfg.ServiceName,
		Environment: cfg.Environment,
	})
	slog.SetDefault(logger)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Debug:       !cfg.IsProduction(),
		}); err != nil {
			logger.Error("sentry_init_failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var pub events.Publisher = events.Noop{}
	var kafka *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		pub = kafka
	}

	images, err := imageStore(cfg)
	if err != nil {
		log.Fatalf("image store: %v", err)
	}

	users := repo.NewGormStore[models.User](db, cfg.DBQueryTimeout)
	products := repo.NewGormStore[models.Product](db, cfg.DBQueryTimeout, service.ProductSearchColumns...)
	ingredients := repo.NewGormStore[models.Ingredient](db, cfg.DBQueryTimeout, service.IngredientSearchColumns...)

	issuer := tokens.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)

	e := httpserver.New(logger, &httpserver.Deps{
		Auth:        &httpserver.AuthHTTP{Svc: service.NewAuthService(users, hash.New(cfg.BcryptCost), issuer, pub)},
		Products:    &httpserver.ProductHTTP{Svc: service.NewProductService(products, qr.NewGenerator(), pub)},
		Ingredients: &httpserver.IngredientHTTP{Svc: service.NewIngredientService(ingredients, pub)},
		Uploads:     &httpserver.UploadHTTP{Store: images, MaxBytes: cfg.MaxUploadBytes},
		Health:      &httpserver.HealthHTTP{DB: db, Environment: cfg.Environment},
		Verifier:    issuer,

		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_started", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if kafka != nil {
		if err := kafka.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}
	sentry.Flush(2 * time.Second)
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}

// imageStore picks MinIO when an endpoint is configured and the local upload
// directory otherwise.
func imageStore(cfg config.Config) (storage.ImageStore, error) {
	if cfg.MinioEndpoint == "" {
		return storage.NewLocal(cfg.UploadDir)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return storage.NewMinio(ctx, storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
}
