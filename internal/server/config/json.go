package config

import (
	"encoding/json"
	"os"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/flagx"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Durations
// use timex.Duration so both "10m" and integer nanoseconds are accepted.
// Only fields present with a non-zero value override the current Config.
type JsonConfig struct {
	HTTPAddr            string         `json:"http_addr"`
	Env                 string         `json:"env"`
	StorageBackend      string         `json:"storage_backend"`
	VerificationBackend string         `json:"verification_backend"`
	TablePrefix         string         `json:"table_prefix"`
	StoreTimeout        timex.Duration `json:"store_timeout"`
	AWSRegion           string         `json:"aws_region"`
	DynamoEndpoint      string         `json:"dynamodb_endpoint"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Endpoint          string         `json:"s3_endpoint"`
	S3PublicBaseURL     string         `json:"s3_public_base_url"`
	DatabaseDSN         string         `json:"database_dsn"`
	SecretKey           string         `json:"secret_key"`
	TokenTTL            timex.Duration `json:"token_ttl"`
	SMTPHost            string         `json:"smtp_host"`
	SMTPPort            int            `json:"smtp_port"`
	SMTPFrom            string         `json:"smtp_from"`
	AdminEmail          string         `json:"admin_email"`
	VerificationTTL     timex.Duration `json:"verification_ttl"`
	CORSOrigins         string         `json:"cors_origins"`
	RateLimit           int            `json:"rate_limit"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson loads the file named by -c/-config in args, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.Env, c.Env)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.VerificationBackend, c.VerificationBackend)
	setString(&config.TablePrefix, c.TablePrefix)
	setString(&config.AWSRegion, c.AWSRegion)
	setString(&config.DynamoEndpoint, c.DynamoEndpoint)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Endpoint, c.S3Endpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPFrom, c.SMTPFrom)
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.CORSOrigins, c.CORSOrigins)

	if c.StoreTimeout.Duration > 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.TokenTTL.Duration > 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.VerificationTTL.Duration > 0 {
		config.VerificationTTL = c.VerificationTTL.Duration
	}
	if c.SMTPPort > 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.RateLimit > 0 {
		config.RateLimit = c.RateLimit
	}
	return nil
}
