package config

import "time"

// Config is the root configuration for the ticker loader.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Warehouse WarehouseConfig `yaml:"warehouse"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
	Health    HealthConfig    `yaml:"health"`
}

// APIConfig holds Polygon API settings.
type APIConfig struct {
	BaseURL           string        `yaml:"base_url"`
	APIKey            string        `yaml:"api_key"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout"`
	Market            string        `yaml:"market"`
	PageLimit         int           `yaml:"page_limit"`
}

// WarehouseConfig selects the destination store and table.
type WarehouseConfig struct {
	Driver          string          `yaml:"driver"` // "snowflake" or "postgres"
	Table           string          `yaml:"table"`  // [database.][schema.]table
	InsertBatchSize int             `yaml:"insert_batch_size"`
	Snowflake       SnowflakeConfig `yaml:"snowflake"`
	Postgres        DBConfig        `yaml:"postgres"`
}

// SnowflakeConfig holds Snowflake credentials.
type SnowflakeConfig struct {
	Account   string `yaml:"account"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Warehouse string `yaml:"warehouse"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
	Role      string `yaml:"role"`
}

// DBConfig holds a single PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SchedulerConfig holds trigger loop settings.
type SchedulerConfig struct {
	Interval          time.Duration  `yaml:"interval"`
	HeartbeatInterval *time.Duration `yaml:"heartbeat_interval"` // 0 disables
	RunOnStart        *bool          `yaml:"run_on_start"`
}

// Heartbeat returns the heartbeat log period, DefaultHeartbeat when unset.
func (s SchedulerConfig) Heartbeat() time.Duration {
	if s.HeartbeatInterval == nil {
		return DefaultHeartbeat
	}
	return *s.HeartbeatInterval
}

// ShouldRunOnStart reports whether a run fires immediately at startup.
func (s SchedulerConfig) ShouldRunOnStart() bool {
	return s.RunOnStart == nil || *s.RunOnStart
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, auto
	File   string `yaml:"file"`   // empty disables the file sink
}

// HealthConfig holds the status server settings.
type HealthConfig struct {
	Addr string `yaml:"addr"` // empty disables the server
}
