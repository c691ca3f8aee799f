package dsn_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nkonev/pgwire/dsn"
)

func TestParseResolvesService(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	conf := "[myservice]\n" +
		"host=service-host.example.com\n" +
		"port=6543\n" +
		"dbname=servicedb\n" +
		"user=serviceuser\n"
	if err := os.WriteFile(filepath.Join(home, ".pg_service.conf"), []byte(conf), 0o600); err != nil {
		t.Fatalf("write .pg_service.conf: %v", err)
	}

	cfg, err := dsn.Parse("postgres://?service=myservice")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Host != "service-host.example.com" {
		t.Errorf("Host = %q, want service-host.example.com", cfg.Host)
	}
	if cfg.Port != 6543 {
		t.Errorf("Port = %d, want 6543", cfg.Port)
	}
	if cfg.Database != "servicedb" {
		t.Errorf("Database = %q, want servicedb", cfg.Database)
	}
	if cfg.User != "serviceuser" {
		t.Errorf("User = %q, want serviceuser", cfg.User)
	}
}

func TestParseURIOverridesService(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	conf := "[myservice]\nhost=service-host.example.com\nport=6543\n"
	if err := os.WriteFile(filepath.Join(home, ".pg_service.conf"), []byte(conf), 0o600); err != nil {
		t.Fatalf("write .pg_service.conf: %v", err)
	}

	cfg, err := dsn.Parse("postgres://explicit-host.example.com:5432/db?service=myservice")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Host != "explicit-host.example.com" {
		t.Errorf("Host = %q, want explicit-host.example.com (the URI's own host must win over service file)", cfg.Host)
	}
}
