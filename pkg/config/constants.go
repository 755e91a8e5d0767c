package config

const (
	// EnvPrefix namespaces every environment variable read by envconfig.
	EnvPrefix = "KASIEATS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "KASIEATS_DB_DSN"
	EnvDBHost = "KASIEATS_DB_HOST"
	EnvDBUser = "KASIEATS_DB_USER"
	EnvDBName = "KASIEATS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
