package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return errors.New("server.http_addr is required")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must be >= 0")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Dispatcher.Workers < 0 {
		return errors.New("dispatcher.workers must be >= 0")
	}
	if c.Dispatcher.QueueSize < 1 {
		return errors.New("dispatcher.queue_size must be >= 1")
	}
	if c.Dispatcher.UpdateTimeout < 0 {
		return errors.New("dispatcher.update_timeout must be >= 0")
	}

	if c.Redis.DB < 0 {
		return errors.New("redis.db must be >= 0")
	}

	switch c.Log.Mode {
	case "development", "production":
	default:
		return fmt.Errorf("log.mode must be development or production, got %q", c.Log.Mode)
	}
	return nil
}

func (db *DatabaseConfig) validate(prefix string) error {
	switch db.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("%s.driver must be mysql or postgres, got %q", prefix, db.Driver)
	}
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxOpenConns < 1 {
		return fmt.Errorf("%s.max_open_conns must be >= 1", prefix)
	}
	if db.MaxIdleConns < 0 {
		return fmt.Errorf("%s.max_idle_conns must be >= 0", prefix)
	}
	if db.MaxIdleConns > db.MaxOpenConns {
		return fmt.Errorf("%s.max_idle_conns (%d) cannot exceed max_open_conns (%d)", prefix, db.MaxIdleConns, db.MaxOpenConns)
	}
	return nil
}
