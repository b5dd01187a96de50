package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/provider"
)

type Config struct {
	Addr                string
	LogLevel            string
	CollectionPath      string
	Package             string
	Authority           string
	ReadOnly            bool
	BridgeQueueSize     int
	DefaultNewCardLimit int
	AppendMarker        string
	NewCardOrder        string
	MetricsEnabled      bool
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		LogLevel:            strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		CollectionPath:      envOr("ANKI_COLLECTION_PATH", "collection.anki2"),
		Package:             envOr("ANKI_PACKAGE", provider.Package),
		Authority:           envOr("ANKI_AUTHORITY", provider.Authority),
		ReadOnly:            envBoolOr("ANKI_READ_ONLY", false),
		BridgeQueueSize:     envIntOr("BRIDGE_QUEUE_SIZE", 16),
		DefaultNewCardLimit: envIntOr("DEFAULT_NEW_CARD_LIMIT", 20),
		AppendMarker:        envOr("APPEND_MARKER", models.DefaultMarker),
		NewCardOrder:        envOr("NEW_CARD_ORDER", "id"),
		MetricsEnabled:      envBoolOr("METRICS_ENABLED", true),
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required.Error("ADDR cannot be empty")),
		validation.Field(&c.LogLevel, validation.In("DEBUG", "INFO", "WARN", "WARNING", "ERROR").
			Error("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR")),
		validation.Field(&c.CollectionPath, validation.Required.Error("ANKI_COLLECTION_PATH cannot be empty")),
		validation.Field(&c.Package, validation.Required.Error("ANKI_PACKAGE cannot be empty")),
		validation.Field(&c.Authority, validation.Required.Error("ANKI_AUTHORITY cannot be empty")),
		// Min and Max skip zero values, so Required rejects 0 first.
		validation.Field(&c.BridgeQueueSize,
			validation.Required.Error("BRIDGE_QUEUE_SIZE must be at least 1"),
			validation.Min(1).Error("BRIDGE_QUEUE_SIZE must be at least 1")),
		validation.Field(&c.DefaultNewCardLimit,
			validation.Required.Error("DEFAULT_NEW_CARD_LIMIT must be between 1 and 1000"),
			validation.Min(1).Error("DEFAULT_NEW_CARD_LIMIT must be between 1 and 1000"),
			validation.Max(1000).Error("DEFAULT_NEW_CARD_LIMIT must be between 1 and 1000")),
		validation.Field(&c.AppendMarker, validation.By(notBlank("APPEND_MARKER cannot be blank"))),
		validation.Field(&c.NewCardOrder, validation.In("id", "mod").Error("NEW_CARD_ORDER must be id or mod")),
	)
}

func notBlank(msg string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError("validation_not_blank", msg)
		}
		return nil
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
