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
	configPath = pflag.String("config", ".", "Directory containing config.toml")
	envFile    = pflag.String("env-file", ".env", "Optional dotenv file loaded before reading the environment")

	validLogLevels      = []string{"debug", "info", "warn", "error", "fatal"}
	validDBTypes        = []string{"sqlite", "postgres"}
	validMailTransports = []string{"smtp", "resend", "none"}
)

// keys maps every setting to the environment variable it can be set with
var keys = map[string]string{
	"app.log_level": "app_log_level",

	"host.port": "host_port",
	"host.cors": "host_cors",

	"security.jwt_secret":  "security_jwt_secret",
	"security.session_ttl": "security_session_ttl",
	"security.rate_limit":  "security_rate_limit",

	"db.type": "db_type",
	"db.dsn":  "db_dsn",

	"tmdb.api_key":  "tmdb_api_key",
	"tmdb.base_uri": "tmdb_base_uri",

	"tvdb.api_key":              "tvdb_api_key",
	"tvdb.user_key":             "tvdb_user_key",
	"tvdb.username":             "tvdb_username",
	"tvdb.login_uri":            "tvdb_login_uri",
	"tvdb.refresh_uri":          "tvdb_refresh_uri",
	"tvdb.series_uri":           "tvdb_series_uri",
	"tvdb.refresh_interval":     "tvdb_refresh_interval",
	"tvdb.refresh_min_interval": "tvdb_refresh_min_interval",

	"upstream.timeout": "upstream_timeout",
	"upstream.rps":     "upstream_rps",

	"mail.transport":        "mail_transport",
	"mail.host":             "mail_host",
	"mail.port":             "mail_port",
	"mail.sender_address":   "mail_sender_address",
	"mail.password":         "mail_password",
	"mail.resend_api_key":   "mail_resend_api_key",
	"mail.verification_uri": "mail_verification_uri",
	"mail.check_mx":         "mail_check_mx",

	"cloudflare.turnstile.enabled":      "cloudflare_turnstile_enabled",
	"cloudflare.turnstile.secret_token": "cloudflare_turnstile_secret_token",
}

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
	if !pflag.Parsed() {
		pflag.Parse()
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s, %w", *envFile, err)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	v.AutomaticEnv()

	//
	// ENVS
	//
	for key, env := range keys {
		v.BindEnv(key, env)
	}

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors", "http://localhost:5173")

	v.SetDefault("security.session_ttl", "720h")
	v.SetDefault("security.rate_limit", 20)

	v.SetDefault("db.type", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("tmdb.base_uri", "https://api.themoviedb.org/3")

	v.SetDefault("tvdb.login_uri", "https://api.thetvdb.com/login")
	v.SetDefault("tvdb.refresh_uri", "https://api.thetvdb.com/refresh_token")
	v.SetDefault("tvdb.series_uri", "https://api.thetvdb.com/series")
	v.SetDefault("tvdb.refresh_interval", "0s")
	v.SetDefault("tvdb.refresh_min_interval", "0s")

	v.SetDefault("upstream.timeout", "10s")
	v.SetDefault("upstream.rps", 0)

	v.SetDefault("mail.transport", "smtp")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.check_mx", true)

	v.SetDefault("cloudflare.turnstile.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		fmt.Println("[WARNING]: No config.toml file found, using environment variables and defaults only")
	}

	return Validate()
}

// Validate checks the loaded settings.
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("security.jwt_secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		return errors.New("security.jwt_secret is missing")
	}

	if v.GetDuration("security.session_ttl") <= 0 {
		return errors.New("security.session_ttl must be a positive duration")
	}

	if !slices.Contains(validDBTypes, v.GetString("db.type")) {
		return errors.New("invalid database type provided")
	}

	if v.GetString("db.type") == "postgres" && v.GetString("db.dsn") == "" {
		return errors.New("db.dsn is required for postgres")
	}

	if v.GetString("tmdb.api_key") == "" {
		return errors.New("tmdb.api_key is missing")
	}

	for _, key := range []string{"tvdb.api_key", "tvdb.user_key", "tvdb.username"} {
		if v.GetString(key) == "" {
			return fmt.Errorf("%s is missing", key)
		}
	}

	if v.GetDuration("upstream.timeout") <= 0 {
		return errors.New("upstream.timeout must be a positive duration")
	}

	if v.GetDuration("tvdb.refresh_interval") < 0 || v.GetDuration("tvdb.refresh_min_interval") < 0 {
		return errors.New("tvdb refresh intervals can't be negative")
	}

	transport := v.GetString("mail.transport")
	if !slices.Contains(validMailTransports, transport) {
		return errors.New("invalid mail transport provided")
	}

	if v.GetString("mail.verification_uri") == "" {
		return errors.New("mail.verification_uri is missing")
	}

	switch transport {
	case "smtp":
		if v.GetString("mail.host") == "" || v.GetString("mail.sender_address") == "" {
			return errors.New("mail.host and mail.sender_address are required for smtp")
		}
	case "resend":
		if v.GetString("mail.resend_api_key") == "" || v.GetString("mail.sender_address") == "" {
			return errors.New("mail.resend_api_key and mail.sender_address are required for resend")
		}
	case "none":
		fmt.Println("[WARNING]: Mail transport is disabled. Verification links will only be logged")
	}

	if !v.GetBool("cloudflare.turnstile.enabled") {
		fmt.Println("[WARNING]: Cloudflare's turnstile is disabled. Registration won't be guarded against bots")
	} else {
		if v.GetString("cloudflare.turnstile.secret_token") == "" {
			return errors.New("turnstile secret token is missing")
		}
	}

	return nil
}
