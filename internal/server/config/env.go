package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded into the process environment before the variables are
// read. Variables that are already set win over the file.
var envFile = ".env"

const envPrefix = "NOTEKEEPER_"

// parseEnv overlays values from the environment. DATABASE_URL, SECRET_KEY and
// ACCESS_TOKEN_EXPIRE_MINUTES are read without prefix; everything else uses
// NOTEKEEPER_*. Malformed numbers and booleans are ignored.
func parseEnv(config *Config) {
	// a missing .env is normal outside development
	_ = godotenv.Load(envFile)

	lookupString("DATABASE_URL", &config.DatabaseDSN)
	lookupString("SECRET_KEY", &config.SecretKey)
	if v, ok := lookupInt("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		config.AccessTokenValidityDuration = time.Duration(v) * time.Minute
	}

	lookupString(envPrefix+"HTTP_ADDR", &config.EndpointAddrHTTP)
	lookupString(envPrefix+"GRPC_ADDR", &config.EndpointAddrGRPC)
	lookupString(envPrefix+"LOG_LEVEL", &config.LogLevel)
	if v, ok := lookupInt(envPrefix + "BCRYPT_COST"); ok {
		config.BcryptCost = v
	}
	lookupDuration(envPrefix+"HEALTH_CHECK_INTERVAL", &config.HealthCheckInterval)
	lookupDuration(envPrefix+"SHUTDOWN_TIMEOUT", &config.ShutdownTimeout)

	if v, ok := os.LookupEnv(envPrefix + "EXPORT_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.ExportEnabled = b
		}
	}
	lookupDuration(envPrefix+"EXPORT_URL_TTL", &config.ExportURLValidityDuration)
	lookupString(envPrefix+"S3_USER", &config.S3RootUser)
	lookupString(envPrefix+"S3_PASSWORD", &config.S3RootPassword)
	lookupString(envPrefix+"S3_BUCKET", &config.S3Bucket)
	lookupString(envPrefix+"S3_REGION", &config.S3Region)
	lookupString(envPrefix+"S3_ENDPOINT", &config.S3BaseEndpoint)
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func lookupInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func lookupDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}
