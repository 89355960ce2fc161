package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/infotier/verify-api/internal/config"
	"github.com/infotier/verify-api/internal/database"
	"github.com/infotier/verify-api/internal/handler"
	"github.com/infotier/verify-api/internal/middleware"
	"github.com/infotier/verify-api/internal/models"
	"github.com/infotier/verify-api/internal/provider"
	"github.com/infotier/verify-api/internal/queue"
	"github.com/infotier/verify-api/internal/repository"
	"github.com/infotier/verify-api/internal/router"
	"github.com/infotier/verify-api/internal/service"
	"github.com/infotier/verify-api/pkg/blobstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Verification{}, &models.Evidence{}, &models.CustomerConfig{}, &models.AuditLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	blobs, err := blobstore.NewMinio(blobstore.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create blob store client: %v", err)
	}

	ocr, face := buildProviders(cfg, logger)

	var dispatcher queue.Dispatcher
	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
		dispatcher = queue.NewNATS(natsConn, logger)
	} else {
		logger.Warn().Msg("no nats url configured, evaluations run in-process and are lost on restart")
		dispatcher = queue.NewInProcess(4, logger)
	}
	defer dispatcher.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	verificationRepo := repository.NewVerificationRepository(db)
	evidenceRepo := repository.NewEvidenceRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	customerConfigRepo := repository.NewCustomerConfigRepository(db)

	policies := service.NewPolicyResolver(customerConfigRepo, redisClient, cfg.ConfigCacheTTL, cfg.WebhookSecret, logger)
	notifier := service.NewWebhookService(verificationRepo, policies, service.WebhookOptions{
		Timeout:        cfg.WebhookTimeout,
		MaxAttempts:    cfg.WebhookMaxAttempts,
		InitialBackoff: cfg.WebhookInitialBackoff,
	}, logger)

	verificationService := service.NewVerificationService(
		verificationRepo, evidenceRepo, auditLogRepo, blobs,
		ocr, face, policies, dispatcher, notifier, validate, logger,
	)

	if err := dispatcher.Subscribe(verificationService.Evaluate); err != nil {
		log.Fatalf("failed to subscribe evaluation workers: %v", err)
	}

	verificationHandler := handler.NewVerificationHandler(verificationService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		VerificationHandler: verificationHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildProviders(cfg config.Config, logger zerolog.Logger) (provider.OCRProvider, provider.FaceProvider) {
	var ocr provider.OCRProvider = provider.StubOCR{}
	if cfg.OCRProvider == config.ProviderHTTP {
		ocr = provider.NewHTTPOCR(provider.HTTPConfig{Endpoint: cfg.OCREndpoint, APIKey: cfg.ProviderKey}, logger)
	}

	var face provider.FaceProvider = provider.StubFace{}
	if cfg.FaceProvider == config.ProviderHTTP {
		face = provider.NewHTTPFace(provider.HTTPConfig{Endpoint: cfg.FaceEndpoint, APIKey: cfg.ProviderKey}, logger)
	}

	return ocr, face
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
