package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lkaminski/matchday-stats-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestConfigLoad_FromYAML(t *testing.T) {
	yaml := `
server:
  host: 0.0.0.0
  port: 18080
  shutdown_timeout: 5

logger:
  level: info
  format: json
  env: dev

postgres:
  host: 127.0.0.1
  port: 5432
  user: matchday
  password: secret
  dbname: matchday
  sslmode: disable
  max_conns: 5
  min_conns: 1
  max_conn_lifetime: 60
  max_conn_idle_time: 30
  health_check_period: 15

redis:
  addr: localhost:6379
  db: 1
`
	path := writeTempConfig(t, yaml)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 18080 || cfg.Server.ShutdownTimeout != 5 {
		t.Fatalf("server section not loaded: %+v", cfg.Server)
	}
	if cfg.Postgres.Host != "127.0.0.1" || cfg.Postgres.DBName != "matchday" || cfg.Postgres.MaxConns != 5 {
		t.Fatalf("postgres section not loaded: %+v", cfg.Postgres)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 1 {
		t.Fatalf("redis section not loaded: %+v", cfg.Redis)
	}
	if cfg.Logger.Level != "info" || cfg.Logger.Env != "dev" {
		t.Fatalf("logger section not loaded: %+v", cfg.Logger)
	}
}

func TestConfigLoad_EnvOverridesFileValue(t *testing.T) {
	yaml := `
server:
  port: 18080

postgres:
  host: 127.0.0.1
  port: 5432
  user: placeholder
  password: placeholder
  dbname: matchday
  sslmode: disable
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "fromenv")
	t.Setenv("APP_POSTGRES_PASSWORD", "envsecret")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Postgres.User != "fromenv" || cfg.Postgres.Password != "envsecret" {
		t.Fatalf("env overrides not applied: got user=%q pass=%q", cfg.Postgres.User, cfg.Postgres.Password)
	}
}

func TestConfigLoad_MissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing config file, got nil")
	}
}
