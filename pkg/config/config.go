package config

import (
	"fmt"
	"net/url"
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
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Currency     CurrencyConfig
	Stripe       StripeConfig
	Assets       AssetsConfig
	Webhooks     WebhooksConfig
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
	if err := cfg.Currency.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ALBUMFORGE_APP_ENV" required:"true"`
	Port         string `envconfig:"ALBUMFORGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ALBUMFORGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ALBUMFORGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ALBUMFORGE_DB_DSN"`
	Driver string `envconfig:"ALBUMFORGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ALBUMFORGE_DB_HOST"`
	LegacyPort     int    `envconfig:"ALBUMFORGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ALBUMFORGE_DB_USER"`
	LegacyPassword string `envconfig:"ALBUMFORGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ALBUMFORGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ALBUMFORGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ALBUMFORGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ALBUMFORGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ALBUMFORGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ALBUMFORGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ALBUMFORGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ALBUMFORGE_REDIS_ADDR"`
	Password     string        `envconfig:"ALBUMFORGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ALBUMFORGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ALBUMFORGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ALBUMFORGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ALBUMFORGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ALBUMFORGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ALBUMFORGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ALBUMFORGE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ALBUMFORGE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ALBUMFORGE_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ALBUMFORGE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ALBUMFORGE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ALBUMFORGE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ALBUMFORGE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ALBUMFORGE_ARGON_KEY_LEN" default:"32"`
}

// CurrencyConfig is threaded explicitly into price formatting. Display
// settings never come from ambient global state.
type CurrencyConfig struct {
	Code     string `envconfig:"ALBUMFORGE_CURRENCY_CODE" default:"USD"`
	Symbol   string `envconfig:"ALBUMFORGE_CURRENCY_SYMBOL" default:"$"`
	Position string `envconfig:"ALBUMFORGE_CURRENCY_POSITION" default:"before"`
}

func (c CurrencyConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Position)) {
	case "before", "after":
		return nil
	default:
		return fmt.Errorf("currency position must be %q or %q", "before", "after")
	}
}

// SymbolBefore reports whether the currency symbol precedes the amount.
func (c CurrencyConfig) SymbolBefore() bool {
	return !strings.EqualFold(strings.TrimSpace(c.Position), "after")
}

type StripeConfig struct {
	APIKey string `envconfig:"ALBUMFORGE_STRIPE_API_KEY"`
	Secret string `envconfig:"ALBUMFORGE_STRIPE_SECRET"`
	Env    string `envconfig:"ALBUMFORGE_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type AssetsConfig struct {
	BaseURL string `envconfig:"ALBUMFORGE_ASSETS_BASE_URL" required:"true"`
}

type WebhooksConfig struct {
	IdempotencyTTL time.Duration `envconfig:"ALBUMFORGE_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ALBUMFORGE_AUTO_MIGRATE" default:"false"`
	CollectCard bool `envconfig:"ALBUMFORGE_FEATURE_COLLECT_CARD" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"ALBUMFORGE_DB_HOST": db.LegacyHost,
		"ALBUMFORGE_DB_USER": db.LegacyUser,
		"ALBUMFORGE_DB_NAME": db.LegacyName,
	}
	for _, env := range []string{"ALBUMFORGE_DB_HOST", "ALBUMFORGE_DB_USER", "ALBUMFORGE_DB_NAME"} {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either ALBUMFORGE_DB_DSN or %s are required", strings.Join(missing, ", "))
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
