package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "QUICKPLATE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "QUICKPLATE_DB_DSN"
	EnvDBHost = "QUICKPLATE_DB_HOST"
	EnvDBUser = "QUICKPLATE_DB_USER"
	EnvDBName = "QUICKPLATE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
