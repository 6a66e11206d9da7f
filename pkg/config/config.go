package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "FLORALE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "FLORALE_APP_ENV"
	EnvPort        = "FLORALE_APP_PORT"
	EnvLogLevel    = "FLORALE_LOG_LEVEL"
	EnvDBDSN       = "FLORALE_DB_DSN"
	EnvDBHost      = "FLORALE_DB_HOST"
	EnvDBUser      = "FLORALE_DB_USER"
	EnvDBName      = "FLORALE_DB_NAME"
	EnvRedisURL    = "FLORALE_REDIS_URL"
	EnvJWTSecret   = "FLORALE_JWT_SECRET"
	EnvJWTIssuer   = "FLORALE_JWT_ISSUER"
	EnvJWTExpMins  = "FLORALE_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite   = "FLORALE_USE_SQLITE"
	EnvBridgeMode  = "FLORALE_BRIDGE_MODE"
	EnvDeliveryFee = "FLORALE_DELIVERY_FEE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Storefront   StorefrontConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		if cfg.DB.SQLitePath == "" {
			return nil, fmt.Errorf("%s requires FLORALE_SQLITE_PATH", EnvUseSQLite)
		}
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"FLORALE_APP_ENV" required:"true"`
	Port         string   `envconfig:"FLORALE_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"FLORALE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"FLORALE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"FLORALE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"FLORALE_DB_DSN"`
	SQLitePath string `envconfig:"FLORALE_SQLITE_PATH" default:"florale.db"`

	LegacyHost     string `envconfig:"FLORALE_DB_HOST"`
	LegacyPort     int    `envconfig:"FLORALE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLORALE_DB_USER"`
	LegacyPassword string `envconfig:"FLORALE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLORALE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLORALE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLORALE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"FLORALE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"FLORALE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLORALE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLORALE_REDIS_URL"`
	Address      string        `envconfig:"FLORALE_REDIS_ADDR"`
	Password     string        `envconfig:"FLORALE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLORALE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLORALE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLORALE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLORALE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLORALE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLORALE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"FLORALE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FLORALE_JWT_ISSUER" default:"florale"`
	ExpirationMinutes int    `envconfig:"FLORALE_JWT_EXPIRATION_MINUTES" default:"720"`
}

type FeatureFlagsConfig struct {
	UseSQLite    bool `envconfig:"FLORALE_USE_SQLITE" default:"false"`
	AutoMigrate  bool `envconfig:"FLORALE_AUTO_MIGRATE" default:"false"`
	SeedFixtures bool `envconfig:"FLORALE_SEED_FIXTURES" default:"true"`
}

// StorefrontConfig carries the knobs of the shopper-facing containers.
type StorefrontConfig struct {
	DefaultPoint string        `envconfig:"FLORALE_DEFAULT_POINT" default:"mirny"`
	DeliveryFee  int64         `envconfig:"FLORALE_DELIVERY_FEE" default:"300"`
	SnapshotTTL  time.Duration `envconfig:"FLORALE_SNAPSHOT_TTL" default:"0s"`
	BridgeMode   string        `envconfig:"FLORALE_BRIDGE_MODE" default:"noop"`
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
