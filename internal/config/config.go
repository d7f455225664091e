package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/astro-web3/jwt-validator/internal/domain/token"
)

const envPrefix = "JWT_VALIDATOR"

// MinSecretLength is the recommended HS256 key size in bytes.
const MinSecretLength = 32

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

var (
	ErrMissingSecret = errors.New("jwt.secret is required")
	ErrInvalidStore  = errors.New("rate_limit.store must be memory or redis")
	ErrInvalidRate   = errors.New("rate_limit.requests_per_minute must be positive")
	ErrMissingRedis  = errors.New("redis.url is required for the redis rate limit store")
)

type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		Mode         string        `mapstructure:"mode"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	RPC struct {
		Enabled bool   `mapstructure:"enabled"`
		Addr    string `mapstructure:"addr"`
	} `mapstructure:"rpc"`

	JWT struct {
		Secret    string        `mapstructure:"secret"`
		ClockSkew time.Duration `mapstructure:"clock_skew"`
	} `mapstructure:"jwt"`

	RateLimit struct {
		Enabled           bool   `mapstructure:"enabled"`
		RequestsPerMinute int64  `mapstructure:"requests_per_minute"`
		Store             string `mapstructure:"store"`
	} `mapstructure:"rate_limit"`

	Redis struct {
		URL      string `mapstructure:"url"`
		PoolSize int    `mapstructure:"pool_size"`
	} `mapstructure:"redis"`

	Observability struct {
		MetricsEnabled     bool   `mapstructure:"metrics_enabled"`
		TraceEnabled       bool   `mapstructure:"trace_enabled"`
		TracingEndpointURL string `mapstructure:"tracing_endpoint_url"`
		LogLevel           string `mapstructure:"log_level"`
		Format             string `mapstructure:"log_format"`
		LogSource          bool   `mapstructure:"log_source"`
	} `mapstructure:"observability"`
}

// Secret returns the signing key. The returned value redacts itself when logged.
func (c *Config) Secret() token.Secret {
	return token.Secret(c.JWT.Secret)
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, ErrMissingSecret)
	}

	if c.RateLimit.Enabled {
		switch c.RateLimit.Store {
		case StoreMemory:
		case StoreRedis:
			if c.Redis.URL == "" {
				errs = append(errs, ErrMissingRedis)
			}
		default:
			errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidStore, c.RateLimit.Store))
		}
		if c.RateLimit.RequestsPerMinute <= 0 {
			errs = append(errs, ErrInvalidRate)
		}
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("rpc.enabled", false)
	v.SetDefault("rpc.addr", ":8081")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.clock_skew", time.Duration(0))

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_minute", 600)
	v.SetDefault("rate_limit.store", StoreMemory)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("observability.metrics_enabled", true)
	v.SetDefault("observability.trace_enabled", false)
	v.SetDefault("observability.tracing_endpoint_url", "")
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.log_source", false)
}

// Load reads config.yaml from ./config or the working directory, merges the
// optional config.<APP_ENV>.yaml overlay and applies JWT_VALIDATOR_* env
// overrides. A missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	logger := slog.Default()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		logger.Info("No config file found, using defaults and environment")
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		if err := v.MergeInConfig(); err != nil {
			logger.Info("No environment-specific config (optional)", slog.String("env", env))
		} else {
			logger.Info("Environment-specific config loaded", slog.String("env", env))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if len(cfg.JWT.Secret) < MinSecretLength {
		logger.Warn("jwt.secret is shorter than the recommended HS256 key size",
			slog.Int("length", len(cfg.JWT.Secret)),
			slog.Int("recommended", MinSecretLength),
		)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		slog.Default().Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}
