package pkgconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestViperConfigValues(t *testing.T) {
	path := writeConfigFile(t, "log:\n  level: debug\n"+
		"modules:\n  profile:\n    enabled: true\n    max_uploads: 42\n"+
		"event:\n  base_backoff: 250ms\n")

	cfg, err := NewViper(path, nil)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	defer func() {
		if err := cfg.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}()

	if got := cfg.GetInt("modules.profile.max_uploads"); got != 42 {
		t.Fatalf("GetInt: expected 42, got %d", got)
	}
	if got := cfg.GetBool("modules.profile.enabled"); got != true {
		t.Fatalf("GetBool: expected true, got %v", got)
	}
	if got := cfg.GetString("log.level"); got != "debug" {
		t.Fatalf("GetString: expected debug, got %q", got)
	}
	if got := cfg.GetDuration("event.base_backoff"); got != 250*time.Millisecond {
		t.Fatalf("GetDuration: expected 250ms, got %v", got)
	}
}

func TestViperDefaultsUnderFile(t *testing.T) {
	path := writeConfigFile(t, "charts:\n  workers: 8\n")

	cfg, err := NewViper(path, map[string]any{
		"charts.workers":        4,
		"charts.max_categories": 30,
	})
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetInt("charts.workers"); got != 8 {
		t.Fatalf("expected file value 8, got %d", got)
	}
	if got := cfg.GetInt("charts.max_categories"); got != 30 {
		t.Fatalf("expected default 30, got %d", got)
	}
}

func TestViperEnvOverride(t *testing.T) {
	path := writeConfigFile(t, "modules:\n  profile:\n    max_uploads: 5\n")
	t.Setenv("GOPROFILE_MODULES_PROFILE_MAX_UPLOADS", "9")

	cfg, err := NewViper(path, nil)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetInt("modules.profile.max_uploads"); got != 9 {
		t.Fatalf("expected env override 9, got %d", got)
	}
}

func TestNewViperMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	if _, err := NewViper(missing, nil); err == nil {
		t.Fatal("expected error for missing config file without defaults")
	}

	cfg, err := NewViper(missing, map[string]any{"server.address.http": ":8080"})
	if err != nil {
		t.Fatalf("NewViper with defaults: %v", err)
	}
	if got := cfg.GetString("server.address.http"); got != ":8080" {
		t.Fatalf("expected default address, got %q", got)
	}
}

func TestNewViperMalformedFile(t *testing.T) {
	path := writeConfigFile(t, "log: [unclosed\n")

	if _, err := NewViper(path, map[string]any{"log.level": "info"}); err == nil {
		t.Fatal("expected parse error even with defaults")
	}
}
