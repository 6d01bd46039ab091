package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smileworthy/benefix/auth"
	"github.com/smileworthy/benefix/commerce"
	"github.com/smileworthy/benefix/config"
	"github.com/smileworthy/benefix/extract"
	"github.com/smileworthy/benefix/member"
	"github.com/smileworthy/benefix/storage"
	"github.com/smileworthy/benefix/task"
	"github.com/smileworthy/benefix/transport"
	"github.com/smileworthy/benefix/webhook"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Build-time injected variables
var (
	Version = ""
)

func main() {
	var logger *zap.Logger
	var authEnvironment auth.Environment
	var dotFile string
	var err error

	// Determine running environment and initialize structural logger
	env := os.Getenv("API_ENV")
	if "production" == env {
		dotFile = ".env.production"
		authEnvironment = auth.EnvProduction
		logger, err = zap.NewProduction()
	} else {
		dotFile = ".env.development"
		authEnvironment = auth.EnvDevelopment
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		log.Fatalf("Cannot initialize logger: %v\n", err)
	}
	logger = logger.With(zap.String("Version", Version))
	defer logger.Sync()

	// Load configurations from dotFile
	if err := godotenv.Load(dotFile); err != nil {
		logger.Fatal("Cannot load configurations from .env",
			zap.Error(err),
		)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("Invalid configuration",
			zap.Error(err),
		)
	}

	if authEnvironment == auth.EnvProduction {
		// Initialize sentry for error reporting
		if err := sentry.Init(sentry.ClientOptions{
			Environment: string(authEnvironment),
		}); err != nil {
			logger.Fatal("Cannot initialize sentry",
				zap.Error(err),
			)
		}
		defer sentry.Flush(time.Second * 2)

		// Attach sentry to zap so we can do automatic error capturing
		sentryCfg := zapsentry.Configuration{
			Level: zapcore.ErrorLevel,
			Tags: map[string]string{
				"component": "api",
			},
		}
		core, err := zapsentry.NewCore(sentryCfg, zapsentry.NewSentryClientFromClient(sentry.CurrentHub().Client()))
		if err != nil {
			logger.Fatal("Cannot attach sentry to logger",
				zap.Error(err),
			)
		}
		logger = zapsentry.AttachCoreToLogger(core, logger)
	}

	store, err := storage.NewFileStore(cfg.LedgerPath)
	if err != nil {
		logger.Fatal("Cannot initialize ledger store",
			zap.Error(err),
		)
	}

	ledger, err := member.NewLedger(member.LedgerOptions{
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize Ledger",
			zap.Error(err),
		)
	}

	normalizer, err := member.NewNormalizer(member.NormalizerOptions{
		GroupCode: cfg.GroupCode,
		Coverage:  cfg.Coverage,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize Normalizer",
			zap.Error(err),
		)
	}

	commerceClient, err := commerce.NewClient(commerce.ClientOptions{
		APIBaseURL:   cfg.CommerceAPIBaseURL,
		AuthBaseURL:  cfg.CommerceAuthBaseURL,
		StoreHash:    cfg.StoreHash,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		AccessToken:  cfg.AccessToken,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize platform client",
			zap.Error(err),
		)
	}

	s3Transport, err := transport.NewS3Transport(transport.S3Options{
		Region: cfg.S3Region,
		Bucket: cfg.S3Bucket,
		Prefix: cfg.S3Prefix,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize S3 transport",
			zap.Error(err),
		)
	}

	extractManager, err := extract.NewManager(extract.ManagerOptions{
		Ledger:          ledger,
		Transport:       s3Transport,
		ParentGroupCode: cfg.ParentGroupCode,
		GroupCode:       cfg.GroupCode,
		StagingDir:      cfg.StagingDir,
		Logger:          logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize extract Manager",
			zap.Error(err),
		)
	}

	eventRouter, err := webhook.NewRouter(webhook.RouterOptions{
		Orders:            commerceClient,
		Ledger:            ledger,
		Normalizer:        normalizer,
		Extracts:          extractManager,
		DiagnosticOrderID: cfg.DiagnosticOrderID,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize event Router",
			zap.Error(err),
		)
	}

	authManager, err := auth.New(auth.Options{
		Logger:       logger,
		ClientSecret: cfg.ClientSecret,
		StoreHash:    cfg.StoreHash,
		Environment:  authEnvironment,
	})
	if err != nil {
		logger.Fatal("Cannot initialize AuthManager",
			zap.Error(err),
		)
	}

	webhookService, err := webhook.NewService(webhook.ServiceOptions{
		Auth:        authManager,
		Router:      eventRouter,
		Ledger:      ledger,
		Extracts:    extractManager,
		SDFExtracts: extractManager,
		Commerce:    commerceClient,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize Webhook Service Router",
			zap.Error(err),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dailyExtract, err := task.NewDailyExtract(task.DailyExtractOptions{
		Extracts: extractManager,
		Hour:     cfg.DailyExtractHour,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("Cannot initialize daily extract task",
			zap.Error(err),
		)
	}
	go dailyExtract.Run(ctx)

	if len(cfg.CommerceAuthBaseURL) > 0 {
		tokenRefresh, err := task.NewTokenRefresh(task.TokenRefreshOptions{
			Commerce: commerceClient,
			Logger:   logger,
		})
		if err != nil {
			logger.Fatal("Cannot initialize token refresh task",
				zap.Error(err),
			)
		}
		go tokenRefresh.Run(ctx)
	}

	if len(cfg.WebhookDestination) > 0 {
		hookUpkeep, err := task.NewHookUpkeep(task.HookUpkeepOptions{
			Commerce:    commerceClient,
			Destination: cfg.WebhookDestination,
			Logger:      logger,
		})
		if err != nil {
			logger.Fatal("Cannot initialize webhook upkeep task",
				zap.Error(err),
			)
		}
		go hookUpkeep.Run(ctx)
	}

	rootRouter := chi.NewRouter()
	rootRouter.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	rootRouter.Mount("/webhook", webhookService.Router())

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Handler: rootRouter,
		Addr:    cfg.ListenAddr,
	}

	go func() {
		logger.Info("Listening for webhook deliveries",
			zap.String("Addr", cfg.ListenAddr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed",
				zap.Error(err),
			)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-c

	logger.Info("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*10)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed",
			zap.Error(err),
		)
	}
}
