package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

type DatabaseConfig struct {
	Host     string `env:"DB_HOST,default=localhost"`
	Port     string `env:"DB_PORT,default=5432"`
	User     string `env:"DB_USER,default=dominos_user"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME,default=dominos_db"`
	SSLMode  string `env:"DB_SSLMODE,default=disable"`
}

func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST,default=localhost"`
	Port     string `env:"REDIS_PORT,default=6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,default=0"`
	Prefix   string `env:"REDIS_PREFIX,default=dominos:"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	Issuer    string        `env:"JWT_ISSUER,default=dominos-engine"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,default=72h"`
}

type Config struct {
	Port           string        `env:"PORT,default=8080"`
	StorageBackend string        `env:"STORAGE_BACKEND,default=memory"`
	SQLitePath     string        `env:"SQLITE_PATH,default=dominos.db"`
	CacheEnabled   bool          `env:"CACHE_ENABLED,default=false"`
	CacheTTL       time.Duration `env:"CACHE_TTL,default=30m"`
	Timezone       string        `env:"TIMEZONE,default=UTC"`
	DominoCount    int           `env:"DOMINO_COUNT,default=8"`
	RolloverCron   string        `env:"ROLLOVER_CRON,default=0 0 * * *"`
	RateLimit      int           `env:"RATE_LIMIT,default=100"`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
	LogFormat      string        `env:"LOG_FORMAT,default=text"`

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// a missing .env is normal outside local development
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendPostgres, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("config: JWT_SECRET must be at least 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	if c.DominoCount <= 0 {
		return errors.New("config: DOMINO_COUNT must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the timezone used for users that did not pick one.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// NeedsRedis reports whether the process cannot start without redis. The rate
// limiter uses redis when it is reachable and is skipped otherwise.
func (c *Config) NeedsRedis() bool {
	return c.StorageBackend == BackendRedis || c.CacheEnabled
}
