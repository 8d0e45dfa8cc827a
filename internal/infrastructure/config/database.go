package config

import (
	"fmt"
	"time"
)

// DatabaseConfig locates the craft ledger store
type DatabaseConfig struct {
	// When false, simulations keep no ledger and the ledger commands refuse to run
	Enabled bool `mapstructure:"enabled"`

	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// sqlite file, or ":memory:"
	Path string `mapstructure:"path"`

	// postgres: URL wins over the discrete fields
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig bounds the postgres connection pool
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the connection string handed to the gorm driver
func (c DatabaseConfig) DSN() string {
	if c.Type == "sqlite" {
		if c.Path == "" {
			return ":memory:"
		}
		return c.Path
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
