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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	PubSub       PubSubConfig
	Cron         CronConfig
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
	Env          string `envconfig:"LOSTFOUND_APP_ENV" required:"true"`
	Port         string `envconfig:"LOSTFOUND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LOSTFOUND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOSTFOUND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LOSTFOUND_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"LOSTFOUND_DB_DSN"`

	LegacyHost     string `envconfig:"LOSTFOUND_DB_HOST"`
	LegacyPort     int    `envconfig:"LOSTFOUND_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LOSTFOUND_DB_USER"`
	LegacyPassword string `envconfig:"LOSTFOUND_DB_PASSWORD"`
	LegacyName     string `envconfig:"LOSTFOUND_DB_NAME"`
	LegacySSLMode  string `envconfig:"LOSTFOUND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LOSTFOUND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LOSTFOUND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LOSTFOUND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOSTFOUND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LOSTFOUND_REDIS_URL"`
	Address      string        `envconfig:"LOSTFOUND_REDIS_ADDR"`
	Password     string        `envconfig:"LOSTFOUND_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOSTFOUND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOSTFOUND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOSTFOUND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOSTFOUND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOSTFOUND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOSTFOUND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig describes how access tokens issued by the auth platform are verified.
type JWTConfig struct {
	Secret            string `envconfig:"LOSTFOUND_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LOSTFOUND_JWT_ISSUER"`
	Audience          string `envconfig:"LOSTFOUND_JWT_AUDIENCE" default:"authenticated"`
	ExpirationMinutes int    `envconfig:"LOSTFOUND_JWT_EXPIRATION_MINUTES" default:"60"`
}

type RateLimitConfig struct {
	WriteWindow    time.Duration `envconfig:"LOSTFOUND_RATE_LIMIT_WRITE_WINDOW" default:"1m"`
	WriteUserLimit int           `envconfig:"LOSTFOUND_RATE_LIMIT_WRITE_USER_LIMIT" default:"30"`
	WriteIPLimit   int           `envconfig:"LOSTFOUND_RATE_LIMIT_WRITE_IP_LIMIT" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LOSTFOUND_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LOSTFOUND_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"LOSTFOUND_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"LOSTFOUND_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"LOSTFOUND_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string `envconfig:"LOSTFOUND_GCS_BUCKET_NAME"`
	PublicBaseURL string `envconfig:"LOSTFOUND_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"LOSTFOUND_MEDIA_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(m.MaxUploadMB) << 20
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"LOSTFOUND_PUBSUB_NOTIFICATION_TOPIC"`
}

type CronConfig struct {
	Interval                  time.Duration `envconfig:"LOSTFOUND_CRON_INTERVAL" default:"1h"`
	NotificationRetentionDays int           `envconfig:"LOSTFOUND_CRON_NOTIFICATION_RETENTION_DAYS" default:"30"`
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
