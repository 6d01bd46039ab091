// Command extract regenerates and delivers the full eligibility and SDF
// files from the current ledger. Operators run it when the partner asks for
// an out-of-cycle refresh.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/smileworthy/benefix/config"
	"github.com/smileworthy/benefix/extract"
	"github.com/smileworthy/benefix/member"
	"github.com/smileworthy/benefix/storage"
	"github.com/smileworthy/benefix/transport"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	var logger *zap.Logger
	var dotFile string
	var err error

	env := os.Getenv("API_ENV")
	if "production" == env {
		dotFile = ".env.production"
		logger, err = zap.NewProduction()
	} else {
		dotFile = ".env.development"
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		log.Fatalf("Cannot initialize logger: %v\n", err)
	}
	defer logger.Sync()

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

	ctx := context.Background()

	if _, err := extractManager.GenerateEligibility(ctx); err != nil {
		logger.Fatal("Cannot generate eligibility extract",
			zap.Error(err),
		)
	}
	if _, err := extractManager.GenerateSDF(ctx, time.Now()); err != nil {
		logger.Fatal("Cannot generate SDF extract",
			zap.Error(err),
		)
	}

	logger.Info("Extracts regenerated and delivered",
		zap.Int("Members", ledger.Count(ctx)),
	)
}
