// Package config loads service configuration from environment
// variables (and an optional .env file), following the same
// viper-driven, struct-tagged pattern used across this codebase's
// sibling services.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every externally-tunable setting for the service.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Search   SearchConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"SERVER_HOST"`
	Port         int           `mapstructure:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"SERVER_IDLE_TIMEOUT"`
}

// PostgresConfig holds the storage connection settings consumed by
// internal/repository.Load.
type PostgresConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     int    `mapstructure:"POSTGRES_PORT"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	DBName   string `mapstructure:"POSTGRES_DB"`
	SSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	MaxConns int32  `mapstructure:"POSTGRES_MAX_CONNS"`
	MinConns int32  `mapstructure:"POSTGRES_MIN_CONNS"`
}

// SearchConfig holds the K-best search defaults exposed as
// query.Options fields.
type SearchConfig struct {
	WalkRadiusM     float64       `mapstructure:"SEARCH_WALK_RADIUS_M"`
	SwitchCostM     float64       `mapstructure:"SEARCH_SWITCH_COST_M"`
	MaxAlternatives int           `mapstructure:"SEARCH_MAX_ALTERNATIVES"`
	RequestTimeout  time.Duration `mapstructure:"SEARCH_REQUEST_TIMEOUT"`
	MaxPops         int           `mapstructure:"SEARCH_MAX_POPS"`
}

// DSN returns the PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and an optional
// .env file in the working directory, applying defaults for anything
// unset.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5433)
	viper.SetDefault("POSTGRES_USER", "transit")
	viper.SetDefault("POSTGRES_PASSWORD", "transit_dev_pwd")
	viper.SetDefault("POSTGRES_DB", "transit")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_MAX_CONNS", 20)
	viper.SetDefault("POSTGRES_MIN_CONNS", 2)

	viper.SetDefault("SEARCH_WALK_RADIUS_M", 400.0)
	viper.SetDefault("SEARCH_SWITCH_COST_M", 200.0)
	viper.SetDefault("SEARCH_MAX_ALTERNATIVES", 3)
	viper.SetDefault("SEARCH_REQUEST_TIMEOUT", "2s")
	viper.SetDefault("SEARCH_MAX_POPS", 0)

	// Missing .env is fine — env vars injected by the process
	// supervisor (or plain shell export) are used instead.
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  viper.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
			MaxConns: viper.GetInt32("POSTGRES_MAX_CONNS"),
			MinConns: viper.GetInt32("POSTGRES_MIN_CONNS"),
		},
		Search: SearchConfig{
			WalkRadiusM:     viper.GetFloat64("SEARCH_WALK_RADIUS_M"),
			SwitchCostM:     viper.GetFloat64("SEARCH_SWITCH_COST_M"),
			MaxAlternatives: viper.GetInt("SEARCH_MAX_ALTERNATIVES"),
			RequestTimeout:  viper.GetDuration("SEARCH_REQUEST_TIMEOUT"),
			MaxPops:         viper.GetInt("SEARCH_MAX_POPS"),
		},
	}

	return cfg, nil
}
