package config

const EnvPrefix = "STICKERDASH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv = "STICKERDASH_APP_ENV"
	EnvPort   = "STICKERDASH_APP_PORT"

	EnvDBDSN    = "STICKERDASH_DB_DSN"
	EnvDBDriver = "STICKERDASH_DB_DRIVER"
	EnvDBHost   = "STICKERDASH_DB_HOST"
	EnvDBUser   = "STICKERDASH_DB_USER"
	EnvDBName   = "STICKERDASH_DB_NAME"

	EnvRedisURL = "STICKERDASH_REDIS_URL"

	EnvJWTSecret              = "STICKERDASH_JWT_SECRET"
	EnvJWTIssuer              = "STICKERDASH_JWT_ISSUER"
	EnvJWTExpMins             = "STICKERDASH_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "STICKERDASH_REFRESH_TOKEN_TTL_MINUTES"

	EnvFeedTimeout = "STICKERDASH_FEED_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
