package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Feed          FeedConfig
	Import        ImportConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"STICKERDASH_APP_ENV" required:"true"`
	Port         string `envconfig:"STICKERDASH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STICKERDASH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STICKERDASH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"STICKERDASH_DB_DSN"`
	Driver string `envconfig:"STICKERDASH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STICKERDASH_DB_HOST"`
	LegacyPort     int    `envconfig:"STICKERDASH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STICKERDASH_DB_USER"`
	LegacyPassword string `envconfig:"STICKERDASH_DB_PASSWORD"`
	LegacyName     string `envconfig:"STICKERDASH_DB_NAME"`
	LegacySSLMode  string `envconfig:"STICKERDASH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STICKERDASH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STICKERDASH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STICKERDASH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STICKERDASH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is sqlite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"STICKERDASH_REDIS_URL"`
	Address      string        `envconfig:"STICKERDASH_REDIS_ADDR"`
	Password     string        `envconfig:"STICKERDASH_REDIS_PASSWORD"`
	DB           int           `envconfig:"STICKERDASH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STICKERDASH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STICKERDASH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STICKERDASH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STICKERDASH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STICKERDASH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STICKERDASH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STICKERDASH_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STICKERDASH_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"STICKERDASH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	SessionWindow     time.Duration `envconfig:"STICKERDASH_AUTH_RATE_LIMIT_SESSION_WINDOW" default:"1m"`
	SessionIPLimit    int           `envconfig:"STICKERDASH_AUTH_RATE_LIMIT_SESSION_IP_LIMIT" default:"20"`
	SessionEmailLimit int           `envconfig:"STICKERDASH_AUTH_RATE_LIMIT_SESSION_EMAIL_LIMIT" default:"10"`
}

// RateLimitConfig bounds mutating calls per authenticated user.
type RateLimitConfig struct {
	Window time.Duration `envconfig:"STICKERDASH_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"STICKERDASH_RATE_LIMIT_LIMIT" default:"120"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STICKERDASH_AUTO_MIGRATE" default:"false"`
	DevSessions bool `envconfig:"STICKERDASH_DEV_SESSIONS" default:"false"`
}

// FeedConfig tunes the outbound client used to pull sticker feeds.
type FeedConfig struct {
	Timeout      time.Duration `envconfig:"STICKERDASH_FEED_TIMEOUT" default:"30s"`
	MaxBodyBytes int64         `envconfig:"STICKERDASH_FEED_MAX_BODY_BYTES" default:"10485760"`
	RPS          float64       `envconfig:"STICKERDASH_FEED_RPS" default:"1"`
	Burst        int           `envconfig:"STICKERDASH_FEED_BURST" default:"3"`
}

type ImportConfig struct {
	BatchSize int `envconfig:"STICKERDASH_IMPORT_BATCH_SIZE" default:"500"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STICKERDASH_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverSQLite)
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
