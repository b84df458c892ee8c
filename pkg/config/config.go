package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	Pricing      PricingConfig
	Currency     CurrencyConfig
	Stripe       StripeConfig
	Admin        AdminConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"GAMERSOUQ_APP_ENV" required:"true"`
	Port         string `envconfig:"GAMERSOUQ_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GAMERSOUQ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GAMERSOUQ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GAMERSOUQ_DB_DSN"`
	Driver string `envconfig:"GAMERSOUQ_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GAMERSOUQ_DB_HOST"`
	LegacyPort     int    `envconfig:"GAMERSOUQ_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GAMERSOUQ_DB_USER"`
	LegacyPassword string `envconfig:"GAMERSOUQ_DB_PASSWORD"`
	LegacyName     string `envconfig:"GAMERSOUQ_DB_NAME"`
	LegacySSLMode  string `envconfig:"GAMERSOUQ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GAMERSOUQ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GAMERSOUQ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GAMERSOUQ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GAMERSOUQ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GAMERSOUQ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GAMERSOUQ_REDIS_ADDR"`
	Password     string        `envconfig:"GAMERSOUQ_REDIS_PASSWORD"`
	DB           int           `envconfig:"GAMERSOUQ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GAMERSOUQ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GAMERSOUQ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GAMERSOUQ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GAMERSOUQ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GAMERSOUQ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig governs how long an idle session cart survives in the key-value
// store before Redis expires it.
type CartConfig struct {
	TTL time.Duration `envconfig:"GAMERSOUQ_CART_TTL" default:"720h"`
}

// PricingConfig carries the shipping knobs of the totals computation.
// Amounts are in the canonical currency (KWD, three decimal places).
type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal `envconfig:"GAMERSOUQ_FREE_SHIPPING_THRESHOLD" default:"25.000"`
	FlatShippingFee       decimal.Decimal `envconfig:"GAMERSOUQ_FLAT_SHIPPING_FEE" default:"2.000"`
}

type CurrencyConfig struct {
	Default string `envconfig:"GAMERSOUQ_CURRENCY_DEFAULT" default:"KWD"`
}

type StripeConfig struct {
	APIKey string `envconfig:"GAMERSOUQ_STRIPE_API_KEY"`
	Secret string `envconfig:"GAMERSOUQ_STRIPE_WEBHOOK_SECRET"`
	Env    string `envconfig:"GAMERSOUQ_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type AdminConfig struct {
	Token string `envconfig:"GAMERSOUQ_ADMIN_TOKEN"`
}

type RateLimitConfig struct {
	Limit  int64         `envconfig:"GAMERSOUQ_RATE_LIMIT" default:"120"`
	Window time.Duration `envconfig:"GAMERSOUQ_RATE_LIMIT_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GAMERSOUQ_AUTO_MIGRATE" default:"false"`
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
