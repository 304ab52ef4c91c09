// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath          = pflag.String("config", ".", "Directory containing config.toml")
	validLogLevels      = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers        = []string{"sqlite", "postgres"}
	validLimiterStores  = []string{"memory", "redis"}
	validMailQueueTypes = []string{"local", "redis"}
)

// ErrNoSecret is returned by Validate when no JWT secret is configured
var ErrNoSecret = errors.New("no jwt secret provided")

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	// .env is optional, real environment variables always win
	_ = godotenv.Load()

	if !pflag.Parsed() {
		pflag.Parse()
	}
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	v.AutomaticEnv()

	BindEnvs()
	SetDefaults()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		fmt.Println("[WARNING]: config.toml not found, using defaults and environment variables")
	}

	err := Validate()
	if errors.Is(err, ErrNoSecret) {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	return err
}

// BindEnvs maps every config key to its environment variable
func BindEnvs() {
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.domain", "HOST_DOMAIN")
	v.BindEnv("host.cors", "HOST_CORS")

	v.BindEnv("host.ssl.enabled", "HOST_SSL_ENABLED")
	v.BindEnv("host.ssl.certificate_path", "HOST_SSL_CERTIFICATE_PATH")
	v.BindEnv("host.ssl.certificate_key_path", "HOST_SSL_CERTIFICATE_KEY_PATH")

	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.dsn", "DATABASE_DSN")

	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.access_ttl", "JWT_ACCESS_TTL")
	v.BindEnv("jwt.refresh_ttl", "JWT_REFRESH_TTL")
	v.BindEnv("jwt.email_ttl", "JWT_EMAIL_TTL")

	v.BindEnv("security.rate_limit.requests", "SECURITY_RATE_LIMIT_REQUESTS")
	v.BindEnv("security.rate_limit.period", "SECURITY_RATE_LIMIT_PERIOD")
	v.BindEnv("security.rate_limit.store", "SECURITY_RATE_LIMIT_STORE")

	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	v.BindEnv("mail.host", "MAIL_HOST")
	v.BindEnv("mail.port", "MAIL_PORT")
	v.BindEnv("mail.username", "MAIL_USERNAME")
	v.BindEnv("mail.password", "MAIL_PASSWORD")
	v.BindEnv("mail.from", "MAIL_FROM")
	v.BindEnv("mail.from_name", "MAIL_FROM_NAME")
	v.BindEnv("mail.queue", "MAIL_QUEUE")

	v.BindEnv("avatar.verify", "AVATAR_VERIFY")

	v.BindEnv("storage.enabled", "STORAGE_ENABLED")
	v.BindEnv("storage.bucket", "STORAGE_BUCKET")
	v.BindEnv("storage.region", "STORAGE_REGION")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key_id", "STORAGE_ACCESS_KEY_ID")
	v.BindEnv("storage.secret_access_key", "STORAGE_SECRET_ACCESS_KEY")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	v.BindEnv("storage.max_avatar_size", "STORAGE_MAX_AVATAR_SIZE")

	v.BindEnv("contacts.purge_schedule", "CONTACTS_PURGE_SCHEDULE")
	v.BindEnv("contacts.purge_after", "CONTACTS_PURGE_AFTER")
}

func SetDefaults() {
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_ttl", "168h")
	v.SetDefault("jwt.email_ttl", "168h")

	v.SetDefault("security.rate_limit.requests", 3)
	v.SetDefault("security.rate_limit.period", "1m")
	v.SetDefault("security.rate_limit.store", "memory")

	v.SetDefault("redis.db", 0)

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from_name", "Contacts")
	v.SetDefault("mail.queue", "local")

	v.SetDefault("avatar.verify", false)

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.max_avatar_size", 2)

	v.SetDefault("contacts.purge_schedule", "@daily")
	v.SetDefault("contacts.purge_after", "720h")
}

// Validate checks the loaded values. It's split from Setup so it can be
// run against values set directly on viper.
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if len(v.GetStringSlice("host.cors")) == 0 {
		return errors.New("no cors origins provided")
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetDuration("jwt.access_ttl") <= 0 || v.GetDuration("jwt.refresh_ttl") <= 0 || v.GetDuration("jwt.email_ttl") <= 0 {
		return errors.New("jwt token lifetimes must be bigger than 0")
	}

	if !slices.Contains(validLimiterStores, v.GetString("security.rate_limit.store")) {
		return errors.New("invalid rate limit store provided")
	}

	if v.GetInt("security.rate_limit.requests") > 0 && v.GetDuration("security.rate_limit.period") <= 0 {
		return errors.New("rate limit period must be bigger than 0")
	}

	if !slices.Contains(validMailQueueTypes, v.GetString("mail.queue")) {
		return errors.New("invalid mail queue type provided")
	}

	if v.GetString("redis.addr") == "" {
		if v.GetString("security.rate_limit.store") == "redis" {
			return errors.New("redis rate limit store requires redis.addr")
		}

		if v.GetString("mail.queue") == "redis" {
			return errors.New("redis mail queue requires redis.addr")
		}
	}

	if v.GetString("mail.host") == "" {
		fmt.Println("[WARNING]: mail.host is empty. Confirmation emails will only be logged")
	}

	if v.GetBool("storage.enabled") {
		if v.GetString("storage.bucket") == "" {
			return errors.New("bucket can't be empty")
		}

		if v.GetString("storage.public_url") == "" {
			return errors.New("storage public url can't be empty")
		}

		if v.GetInt("storage.max_avatar_size") <= 0 {
			return errors.New("max avatar size must be bigger than 0")
		}
	}

	if v.GetDuration("contacts.purge_after") <= 0 {
		return errors.New("contacts.purge_after must be bigger than 0")
	}

	if v.GetString("jwt.secret") == "" {
		return ErrNoSecret
	}

	return nil
}
