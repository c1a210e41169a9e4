package config

const (
	EnvPrefix = "LOSTFOUND"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "LOSTFOUND_APP_ENV"
	EnvPort     = "LOSTFOUND_APP_PORT"
	EnvLogLevel = "LOSTFOUND_LOG_LEVEL"

	EnvDBDSN  = "LOSTFOUND_DB_DSN"
	EnvDBHost = "LOSTFOUND_DB_HOST"
	EnvDBUser = "LOSTFOUND_DB_USER"
	EnvDBName = "LOSTFOUND_DB_NAME"

	EnvRedisURL = "LOSTFOUND_REDIS_URL"

	EnvJWTSecret   = "LOSTFOUND_JWT_SECRET"
	EnvJWTIssuer   = "LOSTFOUND_JWT_ISSUER"
	EnvJWTAudience = "LOSTFOUND_JWT_AUDIENCE"

	EnvCORSAllowedOrigins = "LOSTFOUND_CORS_ALLOWED_ORIGINS"

	EnvGCPProjectID = "LOSTFOUND_GCP_PROJECT_ID"
	EnvGCSBucket    = "LOSTFOUND_GCS_BUCKET_NAME"

	EnvMediaMaxUploadMB = "LOSTFOUND_MEDIA_MAX_UPLOAD_MB"

	EnvPubSubNotificationTopic = "LOSTFOUND_PUBSUB_NOTIFICATION_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
