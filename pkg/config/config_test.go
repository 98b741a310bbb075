package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

type validatedConfig struct {
	Name string `yaml:"name"`
}

var errBadName = errors.New("name must not be empty")

func (c *validatedConfig) Validate() error {
	if c.Name == "" {
		return errBadName
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "name: munin\nport: 9090\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "munin" || cfg.Port != 9090 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("MUNIN_TEST_NAME", "from-env")
	path := writeFile(t, "name: ${MUNIN_TEST_NAME}\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("Name = %q, want %q", cfg.Name, "from-env")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "name: munin\nprot: 9090\n")

	var cfg testConfig
	err := Load(path, &cfg)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "prot") {
		t.Errorf("error should name the unknown key: %v", err)
	}
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "")

	cfg := testConfig{Name: "default", Port: 8080}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "default" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v, want defaults preserved", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRunsValidation(t *testing.T) {
	path := writeFile(t, "name: \"\"\n")

	var cfg validatedConfig
	err := Load(path, &cfg)
	if !errors.Is(err, errBadName) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadWithDefaultsFallsBack(t *testing.T) {
	defaultPath := writeFile(t, "name: fallback\n")

	var cfg testConfig
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	if err := LoadWithDefaults(missing, defaultPath, &cfg); err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Name != "fallback" {
		t.Errorf("Name = %q, want %q", cfg.Name, "fallback")
	}
}
