// Package config reads the service configuration from the environment. The
// binaries load .env.development or .env.production via godotenv first, so
// every knob lives in one flat env namespace.
package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	extErrors "github.com/pkg/errors"
)

// Config is the full configuration of the service
type Config struct {
	ListenAddr string `validate:"required"`

	// ledger + extract staging
	LedgerPath string `validate:"required"`
	StagingDir string `validate:"required"`

	// carrier identifiers stamped onto records and file names
	GroupCode       string `validate:"required"`
	ParentGroupCode string `validate:"required"`
	Coverage        string `validate:"required"`

	// upstream commerce platform
	CommerceAPIBaseURL  string `validate:"required,url"`
	CommerceAuthBaseURL string `validate:"omitempty,url"`
	StoreHash           string `validate:"required"`
	ClientID            string `validate:"required"`
	ClientSecret        string `validate:"required,min=16"`
	AccessToken         string `validate:"required"`

	// partner drop bucket
	S3Region string `validate:"required"`
	S3Bucket string `validate:"required"`
	S3Prefix string

	// public URL order webhooks should deliver to; the upkeep task
	// re-registers missing hooks against it
	WebhookDestination string `validate:"omitempty,url"`

	// sentinel order id for the end-to-end diagnostic path, empty = disabled
	DiagnosticOrderID string

	// hour of day (0-23) the daily SDF extract fires
	DailyExtractHour int `validate:"min=0,max=23"`
}

// FromEnv populates and validates a Config from the process environment
func FromEnv() (*Config, error) {
	hour := 0
	if raw := os.Getenv("DAILY_EXTRACT_HOUR"); len(raw) > 0 {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, extErrors.Wrap(err, "DAILY_EXTRACT_HOUR must be numeric")
		}
		hour = parsed
	}

	cfg := &Config{
		ListenAddr: getEnvDefault("LISTEN_ADDR", ":42069"),

		LedgerPath: getEnvDefault("LEDGER_PATH", "data/ledger.json"),
		StagingDir: getEnvDefault("STAGING_DIR", "data/staging"),

		GroupCode:       os.Getenv("GROUP_CODE"),
		ParentGroupCode: os.Getenv("PARENT_GROUP_CODE"),
		Coverage:        os.Getenv("COVERAGE_CODE"),

		CommerceAPIBaseURL:  os.Getenv("COMMERCE_API_BASE_URL"),
		CommerceAuthBaseURL: os.Getenv("COMMERCE_AUTH_BASE_URL"),
		StoreHash:           os.Getenv("COMMERCE_STORE_HASH"),
		ClientID:            os.Getenv("COMMERCE_CLIENT_ID"),
		ClientSecret:        os.Getenv("COMMERCE_CLIENT_SECRET"),
		AccessToken:         os.Getenv("COMMERCE_ACCESS_TOKEN"),

		S3Region: os.Getenv("PARTNER_S3_REGION"),
		S3Bucket: os.Getenv("PARTNER_S3_BUCKET"),
		S3Prefix: os.Getenv("PARTNER_S3_PREFIX"),

		WebhookDestination: os.Getenv("WEBHOOK_DESTINATION"),
		DiagnosticOrderID:  os.Getenv("DIAGNOSTIC_ORDER_ID"),
		DailyExtractHour:   hour,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, extErrors.Wrap(err, "Invalid configuration")
	}
	return cfg, nil
}

func getEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); len(value) > 0 {
		return value
	}
	return fallback
}
