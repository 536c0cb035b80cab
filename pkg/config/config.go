package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Checkout  CheckoutConfig
	Tax       TaxConfig
	Shipping  ShippingConfig
	Coupons   CouponConfig
	RateLimit RateLimitConfig
	Flags     FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DRAPELINE_APP_ENV" required:"true"`
	Port         string `envconfig:"DRAPELINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DRAPELINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DRAPELINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DRAPELINE_DB_DSN"`
	Driver string `envconfig:"DRAPELINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DRAPELINE_DB_HOST"`
	LegacyPort     int    `envconfig:"DRAPELINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DRAPELINE_DB_USER"`
	LegacyPassword string `envconfig:"DRAPELINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"DRAPELINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"DRAPELINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DRAPELINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DRAPELINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DRAPELINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DRAPELINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DRAPELINE_REDIS_URL" required:"true"`
	Password     string        `envconfig:"DRAPELINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"DRAPELINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DRAPELINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DRAPELINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DRAPELINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DRAPELINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DRAPELINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DRAPELINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DRAPELINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DRAPELINE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// CheckoutConfig tunes the order-creation surface. Order creation is never
// auto-retried; the idempotency TTL covers client resubmission instead.
type CheckoutConfig struct {
	IdempotencyTTL time.Duration `envconfig:"DRAPELINE_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

// TaxConfig feeds the flat-rate placeholder tax policy.
type TaxConfig struct {
	FlatRateBps int `envconfig:"DRAPELINE_TAX_FLAT_RATE_BPS" default:"825"`
}

// ShippingConfig feeds the threshold-based flat shipping policy.
type ShippingConfig struct {
	FlatRateCents         int `envconfig:"DRAPELINE_SHIPPING_FLAT_RATE_CENTS" default:"1500"`
	FreeShippingOverCents int `envconfig:"DRAPELINE_SHIPPING_FREE_OVER_CENTS" default:"20000"`
}

type CouponConfig struct {
	MaxCodesPerOrder int `envconfig:"DRAPELINE_COUPONS_MAX_PER_ORDER" default:"3"`
}

// RateLimitConfig throttles the checkout surface. Zero limits disable the
// corresponding counter.
type RateLimitConfig struct {
	CheckoutWindow    time.Duration `envconfig:"DRAPELINE_RATE_LIMIT_CHECKOUT_WINDOW" default:"1m"`
	CheckoutIPLimit   int           `envconfig:"DRAPELINE_RATE_LIMIT_CHECKOUT_IP_LIMIT" default:"30"`
	CheckoutUserLimit int           `envconfig:"DRAPELINE_RATE_LIMIT_CHECKOUT_USER_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DRAPELINE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
