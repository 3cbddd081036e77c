package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHTTPAddr        = ":8080"
	DefaultGRPCAddr        = ":50051"
	DefaultShutdownTimeout = 15 * time.Second
	DefaultDriver          = "mysql"
	DefaultMySQLPort       = 3306
	DefaultPostgresPort    = 5432
	DefaultSSLMode         = "prefer"
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 30 * time.Minute
	DefaultConnMaxIdleTime = 10 * time.Minute
	DefaultConnectTimeout  = 30 * time.Second
	DefaultRedisPoolSize   = 20
	DefaultBatchTTL        = 24 * time.Hour
	DefaultQueueSize       = 10000
	DefaultUpdateTimeout   = 5 * time.Second
	DefaultLogMode         = "production"
	DefaultServiceName     = "price-service"
)

// ApplyDefaults fills every zero-valued optional field.
func (c *Config) ApplyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = DefaultGRPCAddr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	db := &c.Database
	if db.Driver == "" {
		db.Driver = DefaultDriver
	}
	if db.Port == 0 {
		db.Port = DefaultMySQLPort
		if db.Driver == "postgres" {
			db.Port = DefaultPostgresPort
		}
	}
	if db.SSLMode == "" && db.Driver == "postgres" {
		db.SSLMode = DefaultSSLMode
	}
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = DefaultMaxOpenConns
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = DefaultMaxIdleConns
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	if db.ConnMaxIdleTime == 0 {
		db.ConnMaxIdleTime = DefaultConnMaxIdleTime
	}
	if db.ConnectTimeout == 0 {
		db.ConnectTimeout = DefaultConnectTimeout
	}

	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = DefaultRedisPoolSize
	}
	if c.Redis.BatchTTL == 0 {
		c.Redis.BatchTTL = DefaultBatchTTL
	}

	if c.Dispatcher.QueueSize == 0 {
		c.Dispatcher.QueueSize = DefaultQueueSize
	}
	if c.Dispatcher.UpdateTimeout == 0 {
		c.Dispatcher.UpdateTimeout = DefaultUpdateTimeout
	}

	if c.Log.Mode == "" {
		c.Log.Mode = DefaultLogMode
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = DefaultServiceName
	}
}
