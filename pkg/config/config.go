package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Phone        PhoneConfig
	Retention    RetentionConfig
	Tracker      TrackerConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := cfg.Retention.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SCRAPPICKUP_APP_ENV" required:"true"`
	Port         string `envconfig:"SCRAPPICKUP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SCRAPPICKUP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCRAPPICKUP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type ServiceConfig struct {
	Kind string `envconfig:"SCRAPPICKUP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SCRAPPICKUP_DB_DSN"`
	Driver string `envconfig:"SCRAPPICKUP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SCRAPPICKUP_DB_HOST"`
	LegacyPort     int    `envconfig:"SCRAPPICKUP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SCRAPPICKUP_DB_USER"`
	LegacyPassword string `envconfig:"SCRAPPICKUP_DB_PASSWORD"`
	LegacyName     string `envconfig:"SCRAPPICKUP_DB_NAME"`
	LegacySSLMode  string `envconfig:"SCRAPPICKUP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SCRAPPICKUP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SCRAPPICKUP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SCRAPPICKUP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCRAPPICKUP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SCRAPPICKUP_REDIS_URL"`
	Address      string        `envconfig:"SCRAPPICKUP_REDIS_ADDR"`
	Password     string        `envconfig:"SCRAPPICKUP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCRAPPICKUP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCRAPPICKUP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCRAPPICKUP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCRAPPICKUP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCRAPPICKUP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCRAPPICKUP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig describes how tokens issued by the phone/OTP identity provider are verified.
type JWTConfig struct {
	Secret     string        `envconfig:"SCRAPPICKUP_JWT_SECRET" required:"true"`
	Issuer     string        `envconfig:"SCRAPPICKUP_JWT_ISSUER" required:"true"`
	SessionTTL time.Duration `envconfig:"SCRAPPICKUP_SESSION_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SCRAPPICKUP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SCRAPPICKUP_AUTO_MIGRATE" default:"false"`
}

type PhoneConfig struct {
	CountryCode string `envconfig:"SCRAPPICKUP_PHONE_COUNTRY_CODE" default:"+91"`
}

type RetentionConfig struct {
	Schedule string `envconfig:"SCRAPPICKUP_RETENTION_SCHEDULE" default:"0 3 * * *"`
	TimeZone string `envconfig:"SCRAPPICKUP_RETENTION_TZ" default:"Asia/Kolkata"`
}

// Location resolves the configured time zone used to interpret the cron schedule.
func (r RetentionConfig) Location() (*time.Location, error) {
	tz := strings.TrimSpace(r.TimeZone)
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", EnvRetentionTZ, tz, err)
	}
	return loc, nil
}

type TrackerConfig struct {
	SideDataTimeout time.Duration `envconfig:"SCRAPPICKUP_TRACKER_SIDE_DATA_TIMEOUT" default:"5s"`
	PollInterval    time.Duration `envconfig:"SCRAPPICKUP_TRACKER_POLL_INTERVAL" default:"30s"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"SCRAPPICKUP_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	PickupsTopic string `envconfig:"SCRAPPICKUP_PUBSUB_PICKUPS_TOPIC"`
}

// Enabled reports whether pickup events should be published.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.PickupsTopic) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SCRAPPICKUP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if sqlite {
		db.Driver = DriverSQLite
		if db.DSN == "" {
			db.DSN = "file:scrappickup.db?cache=shared"
		}
		return nil
	}
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
