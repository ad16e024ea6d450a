package config

import (
	"testing"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings(t *testing.T) {
	t.Helper()
	v.Reset()
	t.Cleanup(v.Reset)

	v.Set("app.log_level", "info")
	v.Set("host.port", 8080)
	v.Set("security.jwt_secret", "secret")
	v.Set("security.session_ttl", "720h")
	v.Set("db.type", "sqlite")
	v.Set("tmdb.api_key", "tmdb")
	v.Set("tvdb.api_key", "key")
	v.Set("tvdb.user_key", "user")
	v.Set("tvdb.username", "name")
	v.Set("upstream.timeout", "10s")
	v.Set("mail.transport", "none")
	v.Set("mail.verification_uri", "http://localhost:8080/auth/verify")
}

func TestValidate_Defaults(t *testing.T) {
	validSettings(t)
	require.NoError(t, Validate())
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(){
		"log level":        func() { v.Set("app.log_level", "loud") },
		"port":             func() { v.Set("host.port", 0) },
		"jwt secret":       func() { v.Set("security.jwt_secret", "") },
		"db type":          func() { v.Set("db.type", "mongo") },
		"postgres dsn":     func() { v.Set("db.type", "postgres"); v.Set("db.dsn", "") },
		"tmdb key":         func() { v.Set("tmdb.api_key", "") },
		"tvdb user":        func() { v.Set("tvdb.username", "") },
		"timeout":          func() { v.Set("upstream.timeout", "0s") },
		"transport":        func() { v.Set("mail.transport", "pigeon") },
		"smtp host":        func() { v.Set("mail.transport", "smtp") },
		"resend key":       func() { v.Set("mail.transport", "resend"); v.Set("mail.sender_address", "a@b.com") },
		"verification uri": func() { v.Set("mail.verification_uri", "") },
		"turnstile secret": func() { v.Set("cloudflare.turnstile.enabled", true) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			validSettings(t)
			mutate()
			assert.Error(t, Validate())
		})
	}
}
