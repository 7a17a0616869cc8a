package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	App       AppConfig
	Solana    SolanaConfig
	RabbitMQ  RabbitMQConfig
	Jobs      JobsConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string `validate:"oneof=postgres sqlite"`
	Host     string
	Port     string `validate:"numeric"`
	User     string
	Password string
	DBName   string
	SSLMode  string
	// sqlite file path or DSN
	Path string
}

type ServerConfig struct {
	Port           string `validate:"required,numeric"`
	AllowedOrigins []string
}

type AppConfig struct {
	JWTSecret string `validate:"required,min=16"`
	// wallets allowed to settle any pool and finalize any tournament
	AdminWallets []string
}

type SolanaConfig struct {
	Network        string `validate:"oneof=mainnet-beta devnet testnet"`
	RPCURL         string `validate:"omitempty,url"`
	Timeout        time.Duration
	SignatureLimit int `validate:"gte=1,lte=1000"`
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

type JobsConfig struct {
	Enabled bool
	// cron specs
	RugScoreRefresh    string
	TournamentFinalize string
	// pools scored longer ago than this are refreshed
	RugScoreMaxAge time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gt=0"`
	Burst             int     `validate:"gte=1"`
}

type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn error"`
	Format string `validate:"oneof=json text"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "rugfork")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "rugfork.db")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_WALLETS", "")
	v.SetDefault("SOLANA_NETWORK", "devnet")
	v.SetDefault("SOLANA_RPC_URL", "")
	v.SetDefault("SOLANA_RPC_TIMEOUT", "10s")
	v.SetDefault("SOLANA_SIGNATURE_LIMIT", 1000)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "rugfork.events")
	v.SetDefault("JOBS_ENABLED", true)
	v.SetDefault("JOB_RUGSCORE_REFRESH", "@every 10m")
	v.SetDefault("JOB_TOURNAMENT_FINALIZE", "@every 1m")
	v.SetDefault("RUGSCORE_MAX_AGE", "30m")
	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads .env (if present) and the environment into a validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			Path:     v.GetString("DB_PATH"),
		},
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		App: AppConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			AdminWallets: splitList(v.GetString("ADMIN_WALLETS")),
		},
		Solana: SolanaConfig{
			Network:        v.GetString("SOLANA_NETWORK"),
			RPCURL:         v.GetString("SOLANA_RPC_URL"),
			Timeout:        v.GetDuration("SOLANA_RPC_TIMEOUT"),
			SignatureLimit: v.GetInt("SOLANA_SIGNATURE_LIMIT"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
		Jobs: JobsConfig{
			Enabled:            v.GetBool("JOBS_ENABLED"),
			RugScoreRefresh:    v.GetString("JOB_RUGSCORE_REFRESH"),
			TournamentFinalize: v.GetString("JOB_TOURNAMENT_FINALIZE"),
			RugScoreMaxAge:     v.GetDuration("RUGSCORE_MAX_AGE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// GetDSN returns the connection string for the configured driver.
func (c *Config) GetDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// MigrateURL is the postgres URL form golang-migrate expects.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// IsAdmin reports whether wallet is configured as an admin.
func (c *AppConfig) IsAdmin(wallet string) bool {
	for _, w := range c.AdminWallets {
		if w == wallet {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
