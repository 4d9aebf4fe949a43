package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GetEnv returns the value of key or defaultValue when it is unset or empty.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseEnv overlays environment variables. A .env file in the working
// directory is loaded first; variables already set in the process win.
func parseEnv(c *Config) error {
	_ = godotenv.Load()

	if port := os.Getenv("PORT"); port != "" {
		c.HTTPAddr = ":" + port
	}
	c.Env = GetEnv("NODE_ENV", GetEnv("APP_ENV", c.Env))

	c.StorageBackend = GetEnv("STORAGE_BACKEND", c.StorageBackend)
	c.VerificationBackend = GetEnv("VERIFICATION_BACKEND", c.VerificationBackend)
	c.TablePrefix = GetEnv("TABLE_PREFIX", c.TablePrefix)

	c.AWSRegion = GetEnv("AWS_REGION", c.AWSRegion)
	c.AWSAccessKeyID = GetEnv("AWS_ACCESS_KEY_ID", c.AWSAccessKeyID)
	c.AWSSecretAccessKey = GetEnv("AWS_SECRET_ACCESS_KEY", c.AWSSecretAccessKey)
	c.DynamoEndpoint = GetEnv("DYNAMODB_ENDPOINT", c.DynamoEndpoint)
	c.S3Bucket = GetEnv("S3_BUCKET_NAME", c.S3Bucket)
	c.S3Endpoint = GetEnv("S3_ENDPOINT", c.S3Endpoint)
	c.S3PublicBaseURL = GetEnv("S3_PUBLIC_BASE_URL", c.S3PublicBaseURL)

	c.DatabaseDSN = GetEnv("DATABASE_URL", c.DatabaseDSN)
	c.SecretKey = GetEnv("JWT_SECRET", c.SecretKey)

	c.SMTPHost = GetEnv("SMTP_HOST", c.SMTPHost)
	c.SMTPUser = GetEnv("EMAIL_USER", c.SMTPUser)
	c.SMTPPassword = GetEnv("EMAIL_PASS", c.SMTPPassword)
	c.SMTPFrom = GetEnv("EMAIL_FROM", c.SMTPFrom)
	c.AdminEmail = GetEnv("ADMIN_EMAIL", c.AdminEmail)
	c.CORSOrigins = GetEnv("CORS_ORIGINS", c.CORSOrigins)

	var err error
	if c.SMTPPort, err = envInt("SMTP_PORT", c.SMTPPort); err != nil {
		return err
	}
	if c.RateLimit, err = envInt("RATE_LIMIT", c.RateLimit); err != nil {
		return err
	}
	if c.TokenTTL, err = envTTL("JWT_EXPIRES_IN", c.TokenTTL); err != nil {
		return err
	}
	if c.VerificationTTL, err = envTTL("OTP_TTL", c.VerificationTTL); err != nil {
		return err
	}
	if c.StoreTimeout, err = envTTL("STORE_TIMEOUT", c.StoreTimeout); err != nil {
		return err
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envTTL(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := ParseTTL(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// ParseTTL accepts Go durations ("90m", "168h") plus a whole-day form
// ("7d") so existing JWT_EXPIRES_IN values keep working.
func ParseTTL(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
