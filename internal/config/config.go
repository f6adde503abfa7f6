// Package config manages environment variables.
//
// It reads variables from the `.env` file, loads them into structured Go
// types and validates that required values are present so they can be reused
// across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (observability, app tuning).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

/*
	Env vars are read using the prefix MEMWARZZ_. Keys are lowercased, the
	prefix is removed and "." is the nesting delimiter:

	  MEMWARZZ_SERVER.PORT          -> server.port          -> Config.Server.Port
	  MEMWARZZ_SUPABASE.JWT_SECRET  -> supabase.jwt_secret  -> Config.Supabase.JWTSecret

	Values of keys listed in listKeys are split on "," so a single env var can
	carry a list (e.g. CORS origins).
*/

const envPrefix = "MEMWARZZ_"

// listKeys are config keys whose env values are comma separated lists.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// Config is the root configuration object for the application.
//
// Observability and App are pointers because they are optional. If not
// provided, defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Supabase      SupabaseConfig       `koanf:"supabase" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	App           *AppConfig           `koanf:"app"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// Auth providers understood by the auth middleware.
const (
	AuthProviderSupabase = "supabase"
	AuthProviderClerk    = "clerk"
)

// AuthConfig selects the identity provider that issues bearer tokens.
//
// With "supabase" (default) tokens are Supabase access tokens and the
// sign-up/login endpoints proxy Supabase Auth. With "clerk" tokens are Clerk
// session tokens and SecretKey must be set.
type AuthConfig struct {
	Provider  string `koanf:"provider" validate:"omitempty,oneof=supabase clerk"`
	SecretKey string `koanf:"secret_key" validate:"required_if=Provider clerk"`
}

// SupabaseConfig points at the Supabase project backing auth and storage.
type SupabaseConfig struct {
	URL           string `koanf:"url" validate:"required,url"`
	AnonKey       string `koanf:"anon_key" validate:"required"`
	ServiceKey    string `koanf:"service_key" validate:"required"`
	JWTSecret     string `koanf:"jwt_secret"`
	StorageBucket string `koanf:"storage_bucket"`
}

// IntegrationConfig stores third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey    string `koanf:"resend_api_key" validate:"required"`
	EmailFrom       string `koanf:"email_from"`
	PinataJWT       string `koanf:"pinata_jwt" validate:"required"`
	PinataUploadURL string `koanf:"pinata_upload_url"`
}

// Load reads, decodes and validates the configuration.
//
// Unlike LoadConfig it never exits the process, which keeps it usable from
// tests and tooling.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		if listKeys[key] {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return key, parts
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// Service name and environment always follow the primary config so every
	// log line and trace is tagged consistently.
	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	mainConfig.Observability.ServiceName = "memwarzz"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Auth.Provider == "" {
		mainConfig.Auth.Provider = AuthProviderSupabase
	}
	if mainConfig.Supabase.StorageBucket == "" {
		mainConfig.Supabase.StorageBucket = "memes"
	}
	if mainConfig.Integration.PinataUploadURL == "" {
		mainConfig.Integration.PinataUploadURL = DefaultPinataUploadURL
	}
	if mainConfig.Integration.EmailFrom == "" {
		mainConfig.Integration.EmailFrom = "Memwarzz <onboarding@resend.dev>"
	}

	if mainConfig.App == nil {
		mainConfig.App = DefaultAppConfig()
	}
	mainConfig.App.applyDefaults()
	if err := mainConfig.App.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// LoadConfig loads the configuration and terminates the process on any error.
// It is meant for the main entrypoint only.
func LoadConfig() *Config {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load config")
	}

	return cfg
}
