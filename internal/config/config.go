package config

import (
	"github.com/lkaminski/matchday-stats-service/internal/logger"
)

type Config struct {
	Server   ServerConfig        `mapstructure:"server"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Redis    RedisConfig         `mapstructure:"redis"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxConns          int32 `mapstructure:"max_conns"`
	MinConns          int32 `mapstructure:"min_conns"`
	MaxConnLifetime   int   `mapstructure:"max_conn_lifetime"`   // seconds
	MaxConnIdleTime   int   `mapstructure:"max_conn_idle_time"`  // seconds
	HealthCheckPeriod int   `mapstructure:"health_check_period"` // seconds
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}
