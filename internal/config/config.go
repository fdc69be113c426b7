// Package config provides application configuration through environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerAddress is the host:port the signed API server binds to.
	ServerAddress string

	// UseHTTPS enables TLS termination on the signed API server.
	UseHTTPS bool
	// HTTPSCertificatePath is the path to the TLS certificate when UseHTTPS is set.
	HTTPSCertificatePath string
	// HTTPSPrivateKeyPath is the path to the TLS private key when UseHTTPS is set.
	HTTPSPrivateKeyPath string

	// DatabasePath is the path to the single SQLite database file.
	DatabasePath string
	// EncryptionKey is the passphrase the encrypted columns' KDF derives from.
	EncryptionKey string

	// AccessKeyID is the static principal's access key id.
	AccessKeyID string
	// AccessKeySecret is the static principal's secret key.
	AccessKeySecret string

	// ARNRegion is the synthetic region embedded in generated secret ARNs.
	ARNRegion string
	// ARNAccount is the synthetic account id embedded in generated secret ARNs.
	ARNAccount string

	// ClockSkew is the tolerance window for SigV4 date verification.
	ClockSkew time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether the /metrics listener is started.
	MetricsEnabled bool
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		ServerAddress: env.GetString("SM_SERVER_ADDRESS", "0.0.0.0:8080"),

		UseHTTPS:             env.GetBool("SM_USE_HTTPS", false),
		HTTPSCertificatePath: env.GetString("SM_HTTPS_CERTIFICATE_PATH", "sm.cert.pem"),
		HTTPSPrivateKeyPath:  env.GetString("SM_HTTPS_PRIVATE_KEY_PATH", "sm.key.pem"),

		DatabasePath:  env.GetString("SM_DATABASE_PATH", "secrets.db"),
		EncryptionKey: env.GetString("SM_ENCRYPTION_KEY", ""),

		AccessKeyID:     env.GetString("SM_ACCESS_KEY_ID", ""),
		AccessKeySecret: env.GetString("SM_ACCESS_KEY_SECRET", ""),

		ARNRegion:  env.GetString("SM_ARN_REGION", "us-east-1"),
		ARNAccount: env.GetString("SM_ARN_ACCOUNT", "1"),

		ClockSkew: env.GetDuration("SM_CLOCK_SKEW_SECONDS", 300, time.Second),

		LogLevel: env.GetString("SM_LOG_LEVEL", "info"),

		MetricsEnabled: env.GetBool("SM_METRICS_ENABLED", true),
		MetricsPort:    env.GetInt("SM_METRICS_PORT", 9090),
	}
}

// Validate checks that configuration required for the server to run safely is present.
func (c *Config) Validate() error {
	if c.EncryptionKey == "" {
		return fmt.Errorf("SM_ENCRYPTION_KEY is required")
	}
	if c.AccessKeyID == "" {
		return fmt.Errorf("SM_ACCESS_KEY_ID is required")
	}
	if c.AccessKeySecret == "" {
		return fmt.Errorf("SM_ACCESS_KEY_SECRET is required")
	}
	return nil
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
