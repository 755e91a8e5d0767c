package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Paystack     PaystackConfig
	Checkout     CheckoutConfig
	Cart         CartConfig
	StaffAuth    StaffAuthConfig
	FeatureFlags FeatureFlagsConfig
	Outbox       OutboxConfig
	PubSub       PubSubConfig
	GCP          GCPConfig
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
	Env          string `envconfig:"KASIEATS_APP_ENV" required:"true"`
	Port         string `envconfig:"KASIEATS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KASIEATS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KASIEATS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KASIEATS_DB_DSN"`
	Driver string `envconfig:"KASIEATS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KASIEATS_DB_HOST"`
	LegacyPort     int    `envconfig:"KASIEATS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KASIEATS_DB_USER"`
	LegacyPassword string `envconfig:"KASIEATS_DB_PASSWORD"`
	LegacyName     string `envconfig:"KASIEATS_DB_NAME"`
	LegacySSLMode  string `envconfig:"KASIEATS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KASIEATS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KASIEATS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KASIEATS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KASIEATS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KASIEATS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KASIEATS_REDIS_ADDR"`
	Password     string        `envconfig:"KASIEATS_REDIS_PASSWORD"`
	DB           int           `envconfig:"KASIEATS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KASIEATS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KASIEATS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KASIEATS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KASIEATS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KASIEATS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PaystackConfig holds gateway credentials. Secret key and webhook secret are
// required at startup: a missing secret must never degrade into a silent default.
type PaystackConfig struct {
	SecretKey     string        `envconfig:"KASIEATS_PAYSTACK_SECRET_KEY" required:"true"`
	WebhookSecret string        `envconfig:"KASIEATS_PAYSTACK_WEBHOOK_SECRET" required:"true"`
	BaseURL       string        `envconfig:"KASIEATS_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	CallbackURL   string        `envconfig:"KASIEATS_PAYSTACK_CALLBACK_URL" required:"true"`
	Timeout       time.Duration `envconfig:"KASIEATS_PAYSTACK_TIMEOUT" default:"10s"`
	Env           string        `envconfig:"KASIEATS_PAYSTACK_ENV" default:"test"`
}

// Environment returns the normalized Paystack environment (test/live).
func (p PaystackConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(p.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CheckoutConfig struct {
	ReferencePrefix string `envconfig:"KASIEATS_CHECKOUT_REFERENCE_PREFIX" default:"kasi"`
	Currency        string `envconfig:"KASIEATS_CHECKOUT_CURRENCY" default:"ZAR"`
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"KASIEATS_CART_SESSION_TTL" default:"72h"`
}

type StaffAuthConfig struct {
	JWTSecret string `envconfig:"KASIEATS_STAFF_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"KASIEATS_STAFF_JWT_ISSUER" default:"kasieats"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KASIEATS_AUTO_MIGRATE" default:"false"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"KASIEATS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollInterval   time.Duration `envconfig:"KASIEATS_OUTBOX_PUBLISH_POLL_INTERVAL" default:"500ms"`
	MaxAttempts    int           `envconfig:"KASIEATS_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"KASIEATS_OUTBOX_IDEMPOTENCY_TTL" default:"720h"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"KASIEATS_PUBSUB_ORDERS_TOPIC" default:"kasieats-order-events"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"KASIEATS_GCP_PROJECT_ID"`
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
