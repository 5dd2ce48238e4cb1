package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eringen/folio"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashPasswordCmd(t *testing.T) {
	out, err := runCLI(t, "", "hash-password", "admin123")
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	if got := strings.TrimSpace(out); got != folio.HashPassword("admin123") {
		t.Errorf("hash = %q, want %q", got, folio.HashPassword("admin123"))
	}
}

func TestHashPasswordCmdStdinBcrypt(t *testing.T) {
	out, err := runCLI(t, "s3cret\n", "hash-password", "--bcrypt")
	if err != nil {
		t.Fatalf("hash-password --bcrypt: %v", err)
	}
	hash := strings.TrimSpace(out)
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("hash = %q, want bcrypt", hash)
	}
	cred := folio.Credential{Username: "admin", PasswordHash: hash}
	if !cred.Verify("admin", "s3cret") {
		t.Error("bcrypt hash should verify")
	}
}

func TestHashPasswordCmdEmptyStdin(t *testing.T) {
	if _, err := runCLI(t, "", "hash-password"); err == nil {
		t.Error("empty password should be an error")
	}
}

func TestMigrateCmd(t *testing.T) {
	t.Setenv("FOLIO_DATABASE_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv(logLevelEnvKey, "error")

	out, err := runCLI(t, "", "migrate", "--dry-run")
	if err != nil {
		t.Fatalf("migrate --dry-run: %v", err)
	}
	if !strings.Contains(out, "Current version: 0") || !strings.Contains(out, "Pending migrations:") {
		t.Errorf("dry run output = %q", out)
	}

	if out, err = runCLI(t, "", "migrate"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "Schema is at version") {
		t.Errorf("migrate output = %q", out)
	}

	out, err = runCLI(t, "", "migrate", "--dry-run")
	if err != nil {
		t.Fatalf("migrate --dry-run: %v", err)
	}
	if !strings.Contains(out, "No pending migrations.") {
		t.Errorf("dry run after migrate = %q", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != "folio "+version {
		t.Errorf("version output = %q", out)
	}
}

func TestBadConfigPath(t *testing.T) {
	if _, err := runCLI(t, "", "--config", filepath.Join(t.TempDir(), "missing.toml"), "version"); err == nil {
		t.Error("missing config file should be an error")
	}
}
