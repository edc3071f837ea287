package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SUPABASE_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendREST {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.Remote.Table != "todos" || cfg.Remote.Function != "summarize-todos" {
		t.Errorf("Remote = %+v", cfg.Remote)
	}
	if cfg.Remote.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Remote.Timeout)
	}
	if cfg.UI.Theme != "classic" || cfg.Log.Level != "info" {
		t.Errorf("UI=%+v Log=%+v", cfg.UI, cfg.Log)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `backend: rest
remote:
  url: https://file.example.co
  anon_key: file-key
  timeout: 3s
ui:
  theme: neon
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SUPABASE_URL", "https://env.example.co")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote.URL != "https://env.example.co" {
		t.Errorf("env should override file, URL = %q", cfg.Remote.URL)
	}
	if cfg.Remote.AnonKey != "file-key" || cfg.Remote.Timeout != 3*time.Second {
		t.Errorf("Remote = %+v", cfg.Remote)
	}
	if cfg.UI.Theme != "neon" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SUPABASE_ANON_KEY", "")
	os.Unsetenv("SUPABASE_ANON_KEY")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SUPABASE_ANON_KEY=dotenv-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filepath.Join(dir, "none.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote.AnonKey != "dotenv-key" {
		t.Errorf("AnonKey = %q", cfg.Remote.AnonKey)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SUPABASE_URL", "")
	os.Unsetenv("SUPABASE_URL")
	t.Setenv("TODOSUM_TABLE", "")
	os.Unsetenv("TODOSUM_TABLE")
	t.Setenv("SUPABASE_ANON_KEY", "env-key")

	path := filepath.Join(dir, "config.yaml")
	content := `remote:
  url: https://file.example.co
  anon_key: file-key
  table: file_todos
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	dotenv := "SUPABASE_URL=https://dotenv.example.co\nSUPABASE_ANON_KEY=dotenv-key\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote.Table != "file_todos" {
		t.Errorf("Table = %q, want file value", cfg.Remote.Table)
	}
	if cfg.Remote.URL != "https://dotenv.example.co" {
		t.Errorf("URL = %q, want .env over file", cfg.Remote.URL)
	}
	if cfg.Remote.AnonKey != "env-key" {
		t.Errorf("AnonKey = %q, want environment over .env", cfg.Remote.AnonKey)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TODOSUM_BACKEND", "mongo")

	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v", info.Mode().Perm())
	}
	if err := WriteDefault(path); err == nil {
		t.Error("expected refusal to overwrite")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Remote.Timeout)
	}
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	cfg := Config{Remote: RemoteConfig{AnonKey: "eyJhbGciOiJIUzI1NiJ9.payload"}, Dev: DevConfig{JWTSecret: "short"}}
	r := cfg.Redacted()
	if strings.Contains(r.Remote.AnonKey, "payload") || r.Dev.JWTSecret != "****" {
		t.Errorf("Redacted = %+v", r)
	}
	if cfg.Remote.AnonKey == r.Remote.AnonKey {
		t.Error("Redacted modified a shared value")
	}
}
