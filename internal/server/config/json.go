package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/contacthub/internal/flagx"
	"github.com/dmitrijs2005/contacthub/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr                      string         `json:"endpoint_addr"`
	PublicBaseURL                     string         `json:"public_base_url"`
	CORSAllowedOrigins                []string       `json:"cors_allowed_origins"`
	DatabaseDSN                       string         `json:"database_dsn"`
	RedisAddr                         string         `json:"redis_addr"`
	SecretKey                         string         `json:"secret_key"`
	AccessTokenValidityDuration       timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration      timex.Duration `json:"refresh_token_validity_duration"`
	VerificationTokenValidityDuration timex.Duration `json:"verification_token_validity_duration"`
	ResetTokenValidityDuration        timex.Duration `json:"reset_token_validity_duration"`
	S3RootUser                        string         `json:"s3_root_user"`
	S3RootPassword                    string         `json:"s3_root_password"`
	S3Bucket                          string         `json:"s3_bucket"`
	S3Region                          string         `json:"s3_region"`
	S3BaseEndpoint                    string         `json:"s3_base_endpoint"`
	SMTPHost                          string         `json:"smtp_host"`
	SMTPPort                          int            `json:"smtp_port"`
	SMTPUsername                      string         `json:"smtp_username"`
	SMTPPassword                      string         `json:"smtp_password"`
	MailFrom                          string         `json:"mail_from"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path is taken from the -c or -config command-line flags.
// If it is not set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and command-line
// flags as part of the full configuration process.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.PublicBaseURL != "" {
		config.PublicBaseURL = c.PublicBaseURL
	}
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.VerificationTokenValidityDuration.Duration != 0 {
		config.VerificationTokenValidityDuration = c.VerificationTokenValidityDuration.Duration
	}
	if c.ResetTokenValidityDuration.Duration != 0 {
		config.ResetTokenValidityDuration = c.ResetTokenValidityDuration.Duration
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.SMTPHost != "" {
		config.SMTPHost = c.SMTPHost
	}
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.SMTPUsername != "" {
		config.SMTPUsername = c.SMTPUsername
	}
	if c.SMTPPassword != "" {
		config.SMTPPassword = c.SMTPPassword
	}
	if c.MailFrom != "" {
		config.MailFrom = c.MailFrom
	}
}
