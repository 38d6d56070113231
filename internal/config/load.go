package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. ACCOUNT_AUTH_JWT_SECRET.
const EnvPrefix = "ACCOUNT"

// defaults lists every known key. Keys without a sensible default are still
// registered so that AutomaticEnv picks them up during Unmarshal.
var defaults = map[string]any{
	"server.port":                         8080,
	"server.log_level":                    "info",
	"database.url":                        "",
	"auth.jwt_secret":                     "",
	"auth.token_lifetime_minutes":         60,
	"auth.refresh_token_lifetime_minutes": 10080,
	"auth.max_concurrent_sessions":        1,
	"auth.password_algorithm":             "bcrypt",
	"auth.bcrypt_cost":                    10,
	"redis.addr":                          "",
	"redis.password":                      "",
	"redis.db":                            0,
	"mail.driver":                         "log",
	"mail.smtp_host":                      "",
	"mail.smtp_port":                      587,
	"mail.username":                       "",
	"mail.password":                       "",
	"mail.from":                           "",
	"mail.code_length":                    6,
	"mail.code_ttl_minutes":               10,
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the given config file instead of
// searching for config.yaml in the working directory. An empty path falls
// back to the search.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
