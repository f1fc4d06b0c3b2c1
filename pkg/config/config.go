package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Discounts    DiscountConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BITEFINDERZ_APP_ENV" required:"true"`
	Port         string `envconfig:"BITEFINDERZ_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BITEFINDERZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BITEFINDERZ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BITEFINDERZ_DB_DSN"`
	Driver string `envconfig:"BITEFINDERZ_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"BITEFINDERZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BITEFINDERZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BITEFINDERZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BITEFINDERZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) validate() error {
	if strings.TrimSpace(d.DSN) == "" {
		return fmt.Errorf("BITEFINDERZ_DB_DSN is required")
	}
	switch d.Driver {
	case "postgres", "sqlite":
		return nil
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"BITEFINDERZ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BITEFINDERZ_REDIS_ADDR"`
	Password     string        `envconfig:"BITEFINDERZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"BITEFINDERZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BITEFINDERZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BITEFINDERZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BITEFINDERZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BITEFINDERZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BITEFINDERZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// DiscountConfig tunes the rule store and resolution passes.
type DiscountConfig struct {
	RuleCacheTTL      time.Duration `envconfig:"BITEFINDERZ_DISCOUNT_RULE_CACHE_TTL" default:"5m"`
	ResolutionTimeout time.Duration `envconfig:"BITEFINDERZ_DISCOUNT_RESOLUTION_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BITEFINDERZ_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BITEFINDERZ_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BITEFINDERZ_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BITEFINDERZ_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BITEFINDERZ_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	UsageTopic        string `envconfig:"BITEFINDERZ_PUBSUB_USAGE_TOPIC"`
	UsageSubscription string `envconfig:"BITEFINDERZ_PUBSUB_USAGE_SUBSCRIPTION"`
}

type BigQueryConfig struct {
	Dataset         string `envconfig:"BITEFINDERZ_BIGQUERY_DATASET"`
	UsageTable      string `envconfig:"BITEFINDERZ_BIGQUERY_USAGE_TABLE"`
	SkipTableChecks bool   `envconfig:"BITEFINDERZ_BIGQUERY_SKIP_TABLE_CHECKS" default:"false"`
}
