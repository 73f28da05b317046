package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Tenant   TenantConfig
	Redis    RedisConfig
	Commerce CommerceConfig
	Checkout CheckoutConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// TenantConfig identifies the school storefront this instance serves.
type TenantConfig struct {
	SchoolCode string `envconfig:"STOREFRONT_SCHOOL_CODE" required:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CommerceConfig points at the external payment/ecommerce API. The key is
// attached server-side and never reaches a browser.
type CommerceConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_COMMERCE_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"STOREFRONT_COMMERCE_API_KEY" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_COMMERCE_TIMEOUT" default:"15s"`
}

type CheckoutConfig struct {
	SessionTTL time.Duration `envconfig:"STOREFRONT_CHECKOUT_SESSION_TTL" default:"72h"`
	CartTTL    time.Duration `envconfig:"STOREFRONT_CART_TTL" default:"720h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
