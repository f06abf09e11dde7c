package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Bind           string
	Port           int
	PostgresURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JWTKey         string
	CookieMaxAge   time.Duration
	CookieSecure   bool
	AllowedOrigins []string
	BoardURL       string
	Verbose        bool
}

// RegisterFlags declares every flag; each can also be set through an
// SCUIZ_-prefixed environment variable (dashes become underscores).
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: SCUIZ_BIND)")
	fs.IntVarP(&c.Port, "port", "p", 3000, "port to listen on (env: SCUIZ_PORT)")
	fs.StringVar(&c.PostgresURL, "postgres-url", "", "postgres connection string (env: SCUIZ_POSTGRES_URL)")
	fs.StringVar(&c.RedisAddr, "redis-addr", "localhost:6379", "redis address for the session store (env: SCUIZ_REDIS_ADDR)")
	fs.StringVar(&c.RedisPassword, "redis-password", "", "redis password (env: SCUIZ_REDIS_PASSWORD)")
	fs.IntVar(&c.RedisDB, "redis-db", 0, "redis database number (env: SCUIZ_REDIS_DB)")
	fs.StringVar(&c.JWTKey, "jwt-key", "", "signing key for admin tokens (env: SCUIZ_JWT_KEY)")
	fs.DurationVar(&c.CookieMaxAge, "cookie-max-age", 10*time.Hour, "lifetime of session and admin cookies (env: SCUIZ_COOKIE_MAX_AGE)")
	fs.BoolVar(&c.CookieSecure, "cookie-secure", false, "set the Secure attribute on cookies (env: SCUIZ_COOKIE_SECURE)")
	fs.StringSliceVar(&c.AllowedOrigins, "allowed-origins", nil, "origins allowed to call the API (env: SCUIZ_ALLOWED_ORIGINS)")
	fs.StringVar(&c.BoardURL, "board-url", "", "public URL of the game board, encoded in the join QR (env: SCUIZ_BOARD_URL)")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "debug logging (env: SCUIZ_VERBOSE)")
}

// BindEnv overlays SCUIZ_* environment variables onto flags the user did not
// set explicitly.
func (c *Config) BindEnv(fs *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix("SCUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := fs.Set(f.Name, v.GetString(f.Name)); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("bad value for %s: %w", f.Name, err)
		}
	})
	return bindErr
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.PostgresURL == "" {
		return errors.New("missing postgres url")
	}
	if c.JWTKey == "" {
		return errors.New("missing jwt signing key")
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("missing allowed origins")
	}
	return nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}
