package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is applied by envconfig when processing the environment.
const EnvPrefix = "storefront"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App         AppConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Password    PasswordConfig
	RateLimit   RateLimitConfig
	Admin       AdminConfig
	Orders      OrdersConfig
	Idempotency IdempotencyConfig
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

type MongoConfig struct {
	URI            string        `envconfig:"STOREFRONT_MONGO_URI" required:"true"`
	Database       string        `envconfig:"STOREFRONT_MONGO_DATABASE" default:"storefront"`
	ConnectTimeout time.Duration `envconfig:"STOREFRONT_MONGO_CONNECT_TIMEOUT" default:"10s"`
	MaxPoolSize    uint64        `envconfig:"STOREFRONT_MONGO_MAX_POOL_SIZE" default:"20"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STOREFRONT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"15"`
	RefreshTokenTTLMinutes int    `envconfig:"STOREFRONT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	Window     time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_WINDOW" default:"1m"`
	Limit      int64         `envconfig:"STOREFRONT_RATE_LIMIT_REQUESTS" default:"120"`
	AuthWindow time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_AUTH_WINDOW" default:"1m"`
	AuthLimit  int64         `envconfig:"STOREFRONT_RATE_LIMIT_AUTH_REQUESTS" default:"10"`
}

// AdminConfig carries the allow-list of administrator identities.
// Admin privilege is derived from membership in this set, not from a
// role field stored on the user record.
type AdminConfig struct {
	Emails []string `envconfig:"STOREFRONT_ADMIN_EMAILS"`
}

// EmailSet returns the allow-list as a normalized lookup set.
func (a AdminConfig) EmailSet() map[string]struct{} {
	set := make(map[string]struct{}, len(a.Emails))
	for _, email := range a.Emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		set[email] = struct{}{}
	}
	return set
}

type OrdersConfig struct {
	// CancelWindow bounds how long after creation a customer may cancel.
	CancelWindow         time.Duration `envconfig:"STOREFRONT_ORDERS_CANCEL_WINDOW" default:"3m"`
	EstimatedDeliveryLag time.Duration `envconfig:"STOREFRONT_ORDERS_ESTIMATED_DELIVERY_LAG" default:"168h"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"STOREFRONT_IDEMPOTENCY_TTL" default:"24h"`
}
