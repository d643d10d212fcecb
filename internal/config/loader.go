package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadEnvFiles loads .env files into the process environment. Variables that
// are already set win. Missing files are ignored.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// Load reads a YAML config file and expands environment variables. An empty
// path yields an empty config, so everything comes from the environment.
// Environment overrides are applied on top.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// Expand ${VAR} environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithDefaults loads config and applies default values.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

// applyEnv overwrites fields whose environment variable is set and non-empty.
func (c *Config) applyEnv(lookup lookupFunc) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"POLYGON_API_KEY", &c.API.APIKey},
		{"POLYGON_BASE_URL", &c.API.BaseURL},
		{"SNOWFLAKE_USER", &c.Warehouse.Snowflake.User},
		{"SNOWFLAKE_PASSWORD", &c.Warehouse.Snowflake.Password},
		{"SNOWFLAKE_ACCOUNT", &c.Warehouse.Snowflake.Account},
		{"SNOWFLAKE_WAREHOUSE", &c.Warehouse.Snowflake.Warehouse},
		{"SNOWFLAKE_DATABASE", &c.Warehouse.Snowflake.Database},
		{"SNOWFLAKE_SCHEMA", &c.Warehouse.Snowflake.Schema},
		{"SNOWFLAKE_ROLE", &c.Warehouse.Snowflake.Role},
		{"SNOWFLAKE_TABLE", &c.Warehouse.Table},
		{"WAREHOUSE_DRIVER", &c.Warehouse.Driver},
		{"LOG_LEVEL", &c.Logging.Level},
		{"LOG_FILE", &c.Logging.File},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	if v, ok := lookup("POLYGON_REQUESTS_PER_MINUTE"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return invalid("POLYGON_REQUESTS_PER_MINUTE", "must be an integer (got %q)", v)
		}
		c.API.RequestsPerMinute = n
	}

	if v, ok := lookup("SCHEDULE_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return invalid("SCHEDULE_INTERVAL", "must be a duration (got %q)", v)
		}
		c.Scheduler.Interval = d
	}

	return nil
}
