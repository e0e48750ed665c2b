package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Files
	DataDir     string `envconfig:"DATA_DIR" default:"data"`
	ClubsFile   string `envconfig:"CLUBS_FILE" default:""` // defaults to DATA_DIR/clubs.json
	OutputDir   string `envconfig:"OUTPUT_DIR" default:""` // defaults to DATA_DIR
	LeaguesFile string `envconfig:"LEAGUES_FILE" default:""`

	// Rating model
	BaseElo       float64 `envconfig:"BASE_ELO" default:"1800"`
	KFactor       float64 `envconfig:"K_FACTOR" default:"35"`
	HomeAdvantage float64 `envconfig:"HOME_ADVANTAGE" default:"100"`
	ShrinkageTau  float64 `envconfig:"SHRINKAGE_TAU" default:"30"`

	// Name resolution diagnostics
	SuggestCutoff float64 `envconfig:"SUGGEST_CUTOFF" default:"0.7"`
	SuggestLimit  int     `envconfig:"SUGGEST_LIMIT" default:"5"`

	// football-data.co.uk source
	FootballDataBaseURL    string        `envconfig:"FOOTBALLDATA_BASE_URL" default:"https://www.football-data.co.uk/mmz4281"`
	FootballDataTimeout    time.Duration `envconfig:"FOOTBALLDATA_TIMEOUT" default:"30s"`
	FootballDataLeagues    []string      `envconfig:"FOOTBALLDATA_LEAGUES" default:"E0,E1,SP1,SP2,I1,I2,F1,F2,D1,D2"`
	FootballDataSeasons    []string      `envconfig:"FOOTBALLDATA_SEASONS" default:"2425,2526"`
	FootballDataRateLimit  float64       `envconfig:"FOOTBALLDATA_RATE_LIMIT" default:"2"` // requests per second
	FootballDataMaxRetries int           `envconfig:"FOOTBALLDATA_MAX_RETRIES" default:"3"`
	BackupDir              string        `envconfig:"BACKUP_DIR" default:""`

	// Database
	EnableDatabase   bool   `envconfig:"ENABLE_DATABASE" default:"false"`
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"clubelo"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"clubelo"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" default:""`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	EnableCache     bool          `envconfig:"ENABLE_CACHE" default:"false"`
	RedisHost       string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort       int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTLRatings time.Duration `envconfig:"CACHE_TTL_RATINGS" default:"24h"`

	// Scheduler
	EnableScheduler   bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialRunEnabled bool   `envconfig:"INITIAL_RUN_ENABLED" default:"true"`
	RefreshCron       string `envconfig:"REFRESH_CRON" default:"0 5 * * *"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if cfg.ClubsFile == "" {
		cfg.ClubsFile = filepath.Join(cfg.DataDir, "clubs.json")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = cfg.DataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}

	if c.BaseElo <= 0 {
		return fmt.Errorf("BASE_ELO must be positive")
	}

	if c.KFactor <= 0 {
		return fmt.Errorf("K_FACTOR must be positive")
	}

	if c.HomeAdvantage < 0 {
		return fmt.Errorf("HOME_ADVANTAGE must not be negative")
	}

	if c.ShrinkageTau <= 0 {
		return fmt.Errorf("SHRINKAGE_TAU must be positive")
	}

	if c.SuggestCutoff <= 0 || c.SuggestCutoff > 1 {
		return fmt.Errorf("SUGGEST_CUTOFF must be above 0 and at most 1")
	}

	if c.SuggestLimit <= 0 {
		return fmt.Errorf("SUGGEST_LIMIT must be positive")
	}

	if c.FootballDataRateLimit <= 0 {
		return fmt.Errorf("FOOTBALLDATA_RATE_LIMIT must be positive")
	}

	if c.EnableDatabase && c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required when ENABLE_DATABASE is set")
	}

	if c.EnableScheduler && c.RefreshCron == "" {
		return fmt.Errorf("REFRESH_CRON is required when ENABLE_SCHEDULER is set")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
