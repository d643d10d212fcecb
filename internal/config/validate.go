package config

import (
	"fmt"
	"strings"
)

// ValidationError reports a missing or invalid configuration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

func required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := c.ValidateAPI(); err != nil {
		return err
	}
	if err := c.ValidateWarehouse(); err != nil {
		return err
	}

	if c.Scheduler.Interval <= 0 {
		return invalid("scheduler.interval", "must be > 0")
	}
	if c.Scheduler.Heartbeat() < 0 {
		return invalid("scheduler.heartbeat_interval", "must be >= 0")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json", "auto":
	default:
		return invalid("logging.format", "must be text, json or auto (got %q)", c.Logging.Format)
	}

	return nil
}

// ValidateAPI checks only the settings needed to talk to the upstream API.
func (c *Config) ValidateAPI() error {
	if c.API.APIKey == "" {
		return required("api.api_key")
	}
	if c.API.BaseURL == "" {
		return required("api.base_url")
	}
	if c.API.RequestsPerMinute < 1 {
		return invalid("api.requests_per_minute", "must be >= 1")
	}
	if c.API.PageLimit < 1 || c.API.PageLimit > 1000 {
		return invalid("api.page_limit", "must be between 1 and 1000")
	}
	return nil
}

// ValidateWarehouse checks only the destination store settings.
func (c *Config) ValidateWarehouse() error {
	w := c.Warehouse
	if w.Table == "" {
		return required("warehouse.table")
	}
	if w.InsertBatchSize < 1 {
		return invalid("warehouse.insert_batch_size", "must be >= 1")
	}

	switch w.Driver {
	case DriverSnowflake:
		return w.Snowflake.validate("warehouse.snowflake")
	case DriverPostgres:
		return w.Postgres.validate("warehouse.postgres")
	default:
		return invalid("warehouse.driver", "must be %q or %q (got %q)", DriverSnowflake, DriverPostgres, w.Driver)
	}
}

func (s *SnowflakeConfig) validate(prefix string) error {
	fields := []struct {
		name  string
		value string
	}{
		{"account", s.Account},
		{"user", s.User},
		{"password", s.Password},
		{"warehouse", s.Warehouse},
		{"database", s.Database},
		{"schema", s.Schema},
		{"role", s.Role},
	}
	for _, f := range fields {
		if f.value == "" {
			return required(prefix + "." + f.name)
		}
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return required(prefix + ".host")
	}
	if db.Name == "" {
		return required(prefix + ".name")
	}
	if db.User == "" {
		return required(prefix + ".user")
	}
	if db.Port < 1 || db.Port > 65535 {
		return invalid(prefix+".port", "must be between 1 and 65535")
	}
	if db.MinConns > db.MaxConns {
		return invalid(prefix+".min_conns", "must be <= max_conns")
	}
	return nil
}
