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
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Ledger settings
	AssetCode      string          // Asset identifier for rate quotes, e.g. "XAU"
	MinPurchaseUSD decimal.Decimal // Smallest USD amount accepted for a purchase
	RateMaxAge     time.Duration   // Quotes older than this are treated as unavailable

	// Rate limiting for transfer endpoints, e.g. "30-M" (30 requests per minute)
	TransferRateLimit string

	// Shared key for machine callers (market-data feed, settlement processor).
	// When empty the machine endpoints reject every request.
	ServiceAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "aurum-backend")
	viper.SetDefault("GOLD_ASSET_CODE", "XAU")
	viper.SetDefault("MIN_PURCHASE_USD", "10.00")
	viper.SetDefault("RATE_MAX_AGE", "15m")
	viper.SetDefault("TRANSFER_RATE_LIMIT", "30-M")
	viper.SetDefault("SERVICE_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AssetCode = viper.GetString("GOLD_ASSET_CODE")

	minPurchaseStr := viper.GetString("MIN_PURCHASE_USD")
	minPurchase, err := decimal.NewFromString(minPurchaseStr)
	if err != nil || minPurchase.LessThanOrEqual(decimal.Zero) {
		minPurchase = decimal.RequireFromString("10.00")
		log.Printf("Warning: Invalid value for MIN_PURCHASE_USD ('%s'). Defaulting to %s.\n", minPurchaseStr, minPurchase)
	}
	cfg.MinPurchaseUSD = minPurchase

	rateMaxAgeStr := viper.GetString("RATE_MAX_AGE")
	rateMaxAge, err := time.ParseDuration(rateMaxAgeStr)
	if err != nil || rateMaxAge <= 0 {
		rateMaxAge = 15 * time.Minute
		log.Printf("Warning: Invalid value for RATE_MAX_AGE ('%s'). Defaulting to %s.\n", rateMaxAgeStr, rateMaxAge)
	}
	cfg.RateMaxAge = rateMaxAge

	cfg.TransferRateLimit = viper.GetString("TRANSFER_RATE_LIMIT")

	cfg.ServiceAPIKey = viper.GetString("SERVICE_API_KEY")
	if cfg.ServiceAPIKey == "" {
		log.Println("Warning: SERVICE_API_KEY not set. Quote ingestion and return settlement are disabled.")
	}

	return cfg, nil
}
