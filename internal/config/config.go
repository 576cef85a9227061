// Package config loads server configuration from an optional portal.yaml
// file, with environment overrides under the PORTAL_ prefix.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the resolved server configuration.
type Config struct {
	Port        string
	DatabaseURL string
	// Employees is the allow-list of names permitted to sign in and use
	// the time clock. Checked server-side on every mutating call.
	Employees []string
	// StrictManualEntries rejects manual entries whose clock-out is not
	// after clock-in. Off by default: back-dated corrections are
	// administrative policy, not a data error.
	StrictManualEntries bool
}

// Load reads portal.yaml from path (or the working directory when empty)
// and applies environment overrides. A missing config file is fine;
// defaults and environment carry the day.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.url", "postgres://localhost:5432/blackpoint")
	v.SetDefault("auth.employees", []string{})
	v.SetDefault("timeclock.strict_manual_entries", false)

	v.SetConfigName("portal")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Config{
		Port:                v.GetString("server.port"),
		DatabaseURL:         v.GetString("database.url"),
		Employees:           v.GetStringSlice("auth.employees"),
		StrictManualEntries: v.GetBool("timeclock.strict_manual_entries"),
	}, nil
}

// Authorized reports whether name is on the employee allow-list.
func (c *Config) Authorized(name string) bool {
	name = strings.TrimSpace(name)
	for _, e := range c.Employees {
		if e == name {
			return true
		}
	}
	return false
}
