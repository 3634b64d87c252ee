package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dataDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Endpoint != "https://dummyjson.com/todos" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if want := filepath.Join(dataDir, AppName, "todo.db"); cfg.Database != want {
		t.Errorf("Database = %q, want %q", cfg.Database, want)
	}
	if want := filepath.Join(dataDir, AppName, "todo.log"); cfg.LogFile != want {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, want)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	confDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", confDir)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dir := filepath.Join(confDir, AppName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "endpoint = \"http://localhost:9999/todos\"\ndatabase = \"/tmp/other.db\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Endpoint != "http://localhost:9999/todos" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.Database != "/tmp/other.db" {
		t.Errorf("Database = %q", cfg.Database)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("TODO_ENDPOINT", "http://localhost:1234/todos")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Endpoint != "http://localhost:1234/todos" {
		t.Errorf("Endpoint = %q, want env override", cfg.Endpoint)
	}
}
