package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Marketplace settings
	PlatformFeeRate     decimal.Decimal // fraction of each release kept by the platform
	MaxRevisionRequests int             // revision requests allowed per milestone
	RateLimit           string          // e.g. "100-M" (100 requests per minute)
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "gigbridge-backend")
	viper.SetDefault("PLATFORM_FEE_RATE", "0.10")
	viper.SetDefault("MAX_REVISION_REQUESTS", 3)
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	feeRateStr := viper.GetString("PLATFORM_FEE_RATE")
	feeRate, err := decimal.NewFromString(feeRateStr)
	if err != nil || feeRate.IsNegative() || feeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		feeRate = decimal.NewFromFloat(0.10)
		log.Printf("Warning: Invalid value for PLATFORM_FEE_RATE ('%s'). Defaulting to %s.\n", feeRateStr, feeRate.String())
	}
	cfg.PlatformFeeRate = feeRate

	cfg.MaxRevisionRequests = viper.GetInt("MAX_REVISION_REQUESTS")
	if cfg.MaxRevisionRequests <= 0 {
		cfg.MaxRevisionRequests = 3
		log.Printf("Warning: Invalid value for MAX_REVISION_REQUESTS. Defaulting to %d.\n", cfg.MaxRevisionRequests)
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
