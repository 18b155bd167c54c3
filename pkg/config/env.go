package config

// EnvPrefix is handed to envconfig. Tagged fields fall back to the bare tag
// name, so the variables below are what operators actually set.
const EnvPrefix = "SCRAPPICKUP"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv      = "SCRAPPICKUP_APP_ENV"
	EnvPort        = "SCRAPPICKUP_APP_PORT"
	EnvLogLevel    = "SCRAPPICKUP_LOG_LEVEL"
	EnvDBDSN       = "SCRAPPICKUP_DB_DSN"
	EnvDBHost      = "SCRAPPICKUP_DB_HOST"
	EnvDBUser      = "SCRAPPICKUP_DB_USER"
	EnvDBName      = "SCRAPPICKUP_DB_NAME"
	EnvRedisURL    = "SCRAPPICKUP_REDIS_URL"
	EnvJWTSecret   = "SCRAPPICKUP_JWT_SECRET"
	EnvJWTIssuer   = "SCRAPPICKUP_JWT_ISSUER"
	EnvUseSQLite   = "SCRAPPICKUP_USE_SQLITE"
	EnvCountryCode = "SCRAPPICKUP_PHONE_COUNTRY_CODE"
	EnvRetentionTZ = "SCRAPPICKUP_RETENTION_TZ"
	EnvPickupTopic = "SCRAPPICKUP_PUBSUB_PICKUPS_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
