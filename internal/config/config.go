package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Analysis AnalysisConfig
	Catalog  CatalogConfig
	Scraper  ScraperConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	// MigrationsDir overrides the embedded migrations when set.
	MigrationsDir string
}

// Enabled reports whether a database was configured. Without one the course
// catalog is served from file or the built-in table.
func (c DatabaseConfig) Enabled() bool {
	return c.DBHost != "" && c.DBName != ""
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return c.Host + ":" + port
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiresIn time.Duration
}

type AdminConfig struct {
	Username     string
	PasswordHash string
}

func (c AdminConfig) Enabled() bool {
	return c.Username != "" && c.PasswordHash != ""
}

type AnalysisConfig struct {
	TTL            time.Duration
	MaxUploadBytes int
	UnnamedPattern string
}

type CatalogConfig struct {
	Path       string
	ExactMatch bool
}

type ScraperConfig struct {
	Workers  int
	Headless bool
	Timeout  time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads the environment, after applying a .env file when one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string) bool {
		raw := opt(key)
		if raw == "" {
			return false
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return false
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogLevel:    optDefault("LOG_LEVEL", "info"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                optDefault("DB_PORT", "5432"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
		MigrationsDir:         opt("DB_MIGRATIONS_DIR"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),

		KeyPrefix: optDefault("REDIS_KEY_PREFIX", "skill-gap:"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    opt("JWT_ACCESS_SECRET"),
		AccessExpiresIn: optDuration("JWT_ACCESS_EXPIRES_IN", time.Hour),
	}

	cfg.Admin = AdminConfig{
		Username:     opt("ADMIN_USERNAME"),
		PasswordHash: opt("ADMIN_PASSWORD_HASH"),
	}

	cfg.Analysis = AnalysisConfig{
		TTL:            optDuration("ANALYSIS_TTL", 30*time.Minute),
		MaxUploadBytes: optInt("MAX_UPLOAD_BYTES", 10<<20),
		UnnamedPattern: optDefault("UNNAMED_COLUMN_PATTERN", `^Unnamed`),
	}
	// Zero would mean "never expire" in redis but "default" in go-cache.
	if cfg.Analysis.TTL <= 0 {
		invalid = append(invalid, "ANALYSIS_TTL")
	}
	if _, err := regexp.Compile(cfg.Analysis.UnnamedPattern); err != nil {
		invalid = append(invalid, "UNNAMED_COLUMN_PATTERN")
	}

	cfg.Catalog = CatalogConfig{
		Path:       opt("COURSE_CATALOG_PATH"),
		ExactMatch: optBool("COURSE_MATCH_EXACT"),
	}

	cfg.Scraper = ScraperConfig{
		Workers:  optInt("SCRAPER_WORKERS", 4),
		Headless: optBool("SCRAPER_HEADLESS"),
		Timeout:  optDuration("SCRAPER_TIMEOUT", 20*time.Second),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
