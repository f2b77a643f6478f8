package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName       = "PiGateway"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultAPIBaseURL    = "https://api.minepi.com"
	defaultHorizonURL    = "https://api.mainnet.minepi.com"
	defaultShutdownDelay = 10 * time.Second
	defaultIdempTTL      = 24 * time.Hour
	defaultTokenCacheTTL = 5 * time.Minute

	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Network passphrases for the Pi blockchain.
const (
	MainnetPassphrase = "Pi Network"
	TestnetPassphrase = "Pi Testnet"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName  string
	Env      string
	Port     string
	LogLevel string

	// Pi Platform credentials and endpoints.
	PiAPIKey          string
	PiAPIBaseURL      string
	WalletSeed        string
	HorizonURL        string
	NetworkPassphrase string

	// Shared secret guarding server-to-server routes (payouts, ad rewards).
	AppSecret string

	DatabaseURL string
	RedisURL    string

	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	TokenCacheTTL  time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance. A .env file in the working directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getEnv("APP_NAME", defaultAppName),
		Env:          strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:         getEnv("PORT", defaultPort),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		PiAPIKey:     os.Getenv("PI_API_KEY"),
		PiAPIBaseURL: getEnv("PI_API_BASE_URL", defaultAPIBaseURL),
		WalletSeed:   os.Getenv("PI_WALLET_SEED"),
		HorizonURL:   getEnv("PI_HORIZON_URL", defaultHorizonURL),
		AppSecret:    os.Getenv("APP_SECRET"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),

		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempTTL,
		TokenCacheTTL:  defaultTokenCacheTTL,
	}

	switch strings.ToLower(getEnv("PI_NETWORK", "testnet")) {
	case "mainnet":
		cfg.NetworkPassphrase = MainnetPassphrase
	case "testnet":
		cfg.NetworkPassphrase = TestnetPassphrase
	default:
		return Config{}, fmt.Errorf("PI_NETWORK must be mainnet or testnet")
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(idemTTLSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", idemTTLSecondsEnvVar, err)
		}
		cfg.IdempotencyTTL = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(idemTTLDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", idemTTLDurEnvVar, err)
		}
		cfg.IdempotencyTTL = d
	}

	if v := os.Getenv("TOKEN_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOKEN_CACHE_TTL: %w", err)
		}
		cfg.TokenCacheTTL = d
	}

	if cfg.PiAPIKey == "" {
		return Config{}, fmt.Errorf("PI_API_KEY must be set")
	}

	// Postgres and Redis are optional in development (memory fallbacks kick
	// in) but mandatory everywhere else.
	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.Env)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.Env)
		}
		if cfg.AppSecret == "" {
			return Config{}, fmt.Errorf("APP_SECRET must be set when APP_ENV=%s", cfg.Env)
		}
	}

	return cfg, nil
}

// IsDev reports whether the application runs in a development environment.
func (c Config) IsDev() bool {
	switch c.Env {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
