package config

// EnvPrefix is empty because every field spells out its full variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names shared with tests and operational tooling.
const (
	EnvAppEnv   = "GAMERSOUQ_APP_ENV"
	EnvPort     = "GAMERSOUQ_APP_PORT"
	EnvLogLevel = "GAMERSOUQ_LOG_LEVEL"

	EnvDBDSN  = "GAMERSOUQ_DB_DSN"
	EnvDBHost = "GAMERSOUQ_DB_HOST"
	EnvDBUser = "GAMERSOUQ_DB_USER"
	EnvDBName = "GAMERSOUQ_DB_NAME"

	EnvRedisURL = "GAMERSOUQ_REDIS_URL"

	EnvFreeShippingThreshold = "GAMERSOUQ_FREE_SHIPPING_THRESHOLD"
	EnvFlatShippingFee       = "GAMERSOUQ_FLAT_SHIPPING_FEE"
	EnvCurrencyDefault       = "GAMERSOUQ_CURRENCY_DEFAULT"

	EnvStripeAPIKey        = "GAMERSOUQ_STRIPE_API_KEY"
	EnvStripeWebhookSecret = "GAMERSOUQ_STRIPE_WEBHOOK_SECRET"

	EnvAdminToken = "GAMERSOUQ_ADMIN_TOKEN"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
