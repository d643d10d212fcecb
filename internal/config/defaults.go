package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL           = "https://api.polygon.io"
	DefaultRequestsPerMinute = 5
	DefaultAPITimeout        = 30 * time.Second
	DefaultMarket            = "stocks"
	DefaultPageLimit         = 1000
	DefaultDriver            = DriverSnowflake
	DefaultTable             = "STOCK_TICKERS"
	DefaultInsertBatchSize   = 1000
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 4
	DefaultMinConns          = 1
	DefaultInterval          = 24 * time.Hour
	DefaultHeartbeat         = 1 * time.Minute
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "auto"
	DefaultLogFile           = "scheduler.log"
)

// Supported warehouse drivers.
const (
	DriverSnowflake = "snowflake"
	DriverPostgres  = "postgres"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.RequestsPerMinute == 0 {
		c.API.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.Market == "" {
		c.API.Market = DefaultMarket
	}
	if c.API.PageLimit == 0 {
		c.API.PageLimit = DefaultPageLimit
	}

	// Warehouse defaults
	if c.Warehouse.Driver == "" {
		c.Warehouse.Driver = DefaultDriver
	}
	if c.Warehouse.Table == "" {
		c.Warehouse.Table = DefaultTable
	}
	if c.Warehouse.InsertBatchSize == 0 {
		c.Warehouse.InsertBatchSize = DefaultInsertBatchSize
	}
	applyDBDefaults(&c.Warehouse.Postgres)

	// Scheduler defaults
	if c.Scheduler.Interval == 0 {
		c.Scheduler.Interval = DefaultInterval
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
