package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g., ":8000")
//	-d string          PostgreSQL DSN
//	-s string          JWT HMAC secret key
//	-t int             access token validity, minutes
//	-r int             refresh token validity, minutes
//	-u string          S3 root user
//	-p string          S3 root password
//	-b string          S3 bucket name
//	-g string          S3 region
//	-e string          S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-base-url string   public base URL used in email links
//	-origins string    comma-separated CORS origins
//	-redis string      Redis address for the contact-list cache
//	-smtp-host string  SMTP server host
//	-smtp-port int     SMTP server port
//	-smtp-user string  SMTP username
//	-smtp-pass string  SMTP password
//	-mail-from string  From address for outbound mail
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e",
		"-base-url", "-origins", "-redis",
		"-smtp-host", "-smtp-port", "-smtp-user", "-smtp-pass", "-mail-from",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.PublicBaseURL, "base-url", config.PublicBaseURL, "public base URL for email links")
	origins := fs.String("origins", strings.Join(config.CORSAllowedOrigins, ","), "comma-separated CORS origins")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "Redis address for the contact cache")

	fs.StringVar(&config.SMTPHost, "smtp-host", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "smtp-port", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.SMTPUsername, "smtp-user", config.SMTPUsername, "SMTP username")
	fs.StringVar(&config.SMTPPassword, "smtp-pass", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.MailFrom, "mail-from", config.MailFrom, "From address for outbound mail")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute

	if *origins != "" {
		config.CORSAllowedOrigins = strings.Split(*origins, ",")
	}
}
