package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestSecretGeneratedAndPersisted(t *testing.T) {
	dir := t.TempDir()

	secret := LoadOrGenerateSecret(dir)
	if _, err := hex.DecodeString(secret); err != nil || len(secret) != 64 {
		t.Fatalf("expected a 32-byte hex secret, got %q", secret)
	}

	data, err := os.ReadFile(filepath.Join(dir, secretFileName))
	if err != nil {
		t.Fatalf("secret file not written: %v", err)
	}
	if string(data) != secret {
		t.Errorf("persisted secret %q does not match returned %q", data, secret)
	}

	// A second load reuses the persisted secret instead of rotating it.
	if again := LoadOrGenerateSecret(dir); again != secret {
		t.Errorf("expected stable secret across loads, got %q then %q", secret, again)
	}
}

func TestSecretEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NETLAB_SECRET_KEY", "from-env")

	if secret := LoadOrGenerateSecret(dir); secret != "from-env" {
		t.Errorf("expected env secret to win, got %q", secret)
	}
	if _, err := os.Stat(filepath.Join(dir, secretFileName)); !os.IsNotExist(err) {
		t.Error("env override must not write a secret file")
	}
}

func TestSecretsDifferAcrossFreshDirs(t *testing.T) {
	a := LoadOrGenerateSecret(t.TempDir())
	b := LoadOrGenerateSecret(t.TempDir())
	if a == b {
		t.Error("two fresh config dirs produced the same secret")
	}
}
