package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "DRAPELINE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags (tests, error text).
const (
	EnvAppEnv   = "DRAPELINE_APP_ENV"
	EnvPort     = "DRAPELINE_APP_PORT"
	EnvDBDSN    = "DRAPELINE_DB_DSN"
	EnvDBHost   = "DRAPELINE_DB_HOST"
	EnvDBUser   = "DRAPELINE_DB_USER"
	EnvDBName   = "DRAPELINE_DB_NAME"
	EnvRedisURL = "DRAPELINE_REDIS_URL"

	EnvJWTSecret  = "DRAPELINE_JWT_SECRET"
	EnvJWTIssuer  = "DRAPELINE_JWT_ISSUER"
	EnvJWTExpMins = "DRAPELINE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
