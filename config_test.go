package folio

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfigFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "Portfolio" {
		t.Errorf("Name = %q, want Portfolio", cfg.Name)
	}
	if cfg.Addr != ":5000" {
		t.Errorf("Addr = %q, want :5000", cfg.Addr)
	}
	if cfg.UploadDir != DefaultUploadDir {
		t.Errorf("UploadDir = %q, want %q", cfg.UploadDir, DefaultUploadDir)
	}
	if cfg.MaxUploadBytes != 16*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, want 16 MiB", cfg.MaxUploadBytes)
	}
	if !reflect.DeepEqual(cfg.AllowedExtensions, DefaultAllowedExtensions) {
		t.Errorf("AllowedExtensions = %v", cfg.AllowedExtensions)
	}
	cred := Credential{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash}
	if !cred.Verify("admin", "admin123") {
		t.Error("default credential should be admin/admin123")
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeConfigFile(t, "folio.toml", `
name = "Jane Doe"
url = "https://jane.example/"
author = "Jane"
max_upload_bytes = 1024
allowed_extensions = ["png"]

[[projects]]
title = "Widget"
description = "A widget"
url = "https://github.com/jane/widget"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "Jane Doe" || cfg.Author != "Jane" {
		t.Errorf("Name = %q, Author = %q", cfg.Name, cfg.Author)
	}
	if cfg.URL != "https://jane.example" {
		t.Errorf("URL = %q, want trailing slash trimmed", cfg.URL)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("MaxUploadBytes = %d, want 1024", cfg.MaxUploadBytes)
	}
	if !reflect.DeepEqual(cfg.AllowedExtensions, []string{"png"}) {
		t.Errorf("AllowedExtensions = %v", cfg.AllowedExtensions)
	}
	if len(cfg.Projects) != 1 || cfg.Projects[0].Title != "Widget" {
		t.Errorf("Projects = %+v", cfg.Projects)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfigFile(t, "folio.yaml", `
name: YAML Site
database_path: /tmp/x.db
session_dir: /tmp/sessions
cookie_secure: true
projects:
  - title: One
  - title: Two
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "YAML Site" || cfg.DatabasePath != "/tmp/x.db" || cfg.SessionDir != "/tmp/sessions" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure should be true")
	}
	if len(cfg.Projects) != 2 {
		t.Errorf("Projects = %+v", cfg.Projects)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, "folio.toml", `
name = "From file"
addr = ":8080"
`)
	t.Setenv("FOLIO_SITE_NAME", "From env")
	t.Setenv("FOLIO_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("FOLIO_ALLOWED_EXTENSIONS", "png, gif,")
	t.Setenv("FOLIO_COOKIE_SECURE", "TRUE")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "From env" {
		t.Errorf("Name = %q, want env override", cfg.Name)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want value from file", cfg.Addr)
	}
	if cfg.MaxUploadBytes != 2048 {
		t.Errorf("MaxUploadBytes = %d, want 2048", cfg.MaxUploadBytes)
	}
	if !reflect.DeepEqual(cfg.AllowedExtensions, []string{"png", "gif"}) {
		t.Errorf("AllowedExtensions = %v", cfg.AllowedExtensions)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure should be true")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("invalid max upload", func(t *testing.T) {
		t.Setenv("FOLIO_MAX_UPLOAD_BYTES", "lots")
		if _, err := LoadConfig(""); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("unknown extension", func(t *testing.T) {
		path := writeConfigFile(t, "folio.ini", "name=x")
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("bad toml", func(t *testing.T) {
		path := writeConfigFile(t, "folio.toml", "name = ")
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error")
		}
	})
}
