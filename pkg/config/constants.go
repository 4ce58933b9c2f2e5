package config

const (
	// EnvPrefix is passed to envconfig; the explicit tags below carry the
	// full variable names.
	EnvPrefix = "agriferti"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "AGRIFERTI_APP_ENV"
	EnvPort     = "AGRIFERTI_APP_PORT"
	EnvRedisURL = "AGRIFERTI_REDIS_URL"

	EnvJWTSecret  = "AGRIFERTI_JWT_SECRET"
	EnvJWTIssuer  = "AGRIFERTI_JWT_ISSUER"
	EnvJWTExpMins = "AGRIFERTI_JWT_EXPIRATION_MINUTES"

	EnvDBDSN  = "AGRIFERTI_DB_DSN"
	EnvDBHost = "AGRIFERTI_DB_HOST"
	EnvDBUser = "AGRIFERTI_DB_USER"
	EnvDBName = "AGRIFERTI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
