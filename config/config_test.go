package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decks.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "local" || cfg.Storage.Driver != DriverBolt || cfg.Pages.Size != 5 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Storage.Key != "saved-decks" {
		t.Errorf("key = %q", cfg.Storage.Key)
	}
	if !strings.HasSuffix(cfg.Storage.Path, "decks.db") {
		t.Errorf("path = %q", cfg.Storage.Path)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
env: prod
storage:
  driver: sqlite
  path: /tmp/decks.sqlite
pages:
  size: 3
logging:
  level: warn
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "prod" || cfg.Storage.Driver != DriverSQLite || cfg.Storage.Path != "/tmp/decks.sqlite" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Pages.Size != 3 || cfg.Logging.Level != "warn" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_ExpandsVars(t *testing.T) {
	t.Setenv("TEST_DECKS_REDIS", "cache:6379")
	path := writeConfig(t, `
storage:
  driver: redis
redis:
  addrs: ["${TEST_DECKS_REDIS}"]
  password: "${TEST_DECKS_UNSET:-secret}"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Redis.Addrs) != 1 || cfg.Redis.Addrs[0] != "cache:6379" {
		t.Errorf("addrs = %v", cfg.Redis.Addrs)
	}
	if cfg.Redis.Password != "secret" {
		t.Errorf("password = %q", cfg.Redis.Password)
	}
	if cfg.Redis.Prefix != "decks" {
		t.Errorf("prefix = %q", cfg.Redis.Prefix)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: bolt
  path: /tmp/a.db
pages:
  size: 3
`)
	t.Setenv("DECKS_STORAGE_DRIVER", "mem")
	t.Setenv("DECKS_PAGE_SIZE", "9")
	t.Setenv("DECKS_REDIS_ADDRS", "a:1,b:2")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != DriverMem || cfg.Pages.Size != 9 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Storage.Path != "/tmp/a.db" {
		t.Errorf("unset env var clobbered path: %q", cfg.Storage.Path)
	}
	if len(cfg.Redis.Addrs) != 2 {
		t.Errorf("addrs = %v", cfg.Redis.Addrs)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "storage:\n  driver: floppy\n"},
		{"redis without addrs", "storage:\n  driver: redis\n"},
		{"unknown env", "env: staging\n"},
		{"bad yaml", "storage: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_PageSize(t *testing.T) {
	cfg := Config{Env: "local", Storage: StorageConfig{Driver: DriverMem}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero page size")
	}
}

func TestRead_LeavesDefaultsToFinish(t *testing.T) {
	t.Setenv("DECKS_STORAGE_DRIVER", "redis")
	cfg, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.Storage.Driver != DriverRedis || cfg.Storage.Path != "" || cfg.Pages.Size != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
	// Redis without addrs would fail validation; switching driver first recovers.
	cfg.Storage.Driver = DriverMem
	if err := cfg.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestApplyDefaults_PathFollowsDriver(t *testing.T) {
	tests := []struct {
		driver string
		suffix string
	}{
		{DriverBolt, "decks.db"},
		{DriverStorm, "decks.db"},
		{DriverSQLite, "decks.sqlite"},
		{DriverMem, ""},
		{DriverRedis, ""},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := Config{Storage: StorageConfig{Driver: tt.driver}}
			cfg.ApplyDefaults()
			if tt.suffix == "" {
				if cfg.Storage.Path != "" {
					t.Errorf("path = %q, want empty", cfg.Storage.Path)
				}
				return
			}
			if filepath.Base(cfg.Storage.Path) != tt.suffix {
				t.Errorf("path = %q, want .../%s", cfg.Storage.Path, tt.suffix)
			}
		})
	}
}
