package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"
)

const secretFileName = ".netlab_secret"

// LoadOrGenerateSecret returns the JWT signing secret: the NETLAB_SECRET_KEY
// env var if set, else a secret persisted in the config dir, generated on
// first run.
func LoadOrGenerateSecret(configDir string) string {
	if env := os.Getenv("NETLAB_SECRET_KEY"); env != "" {
		return env
	}

	secretPath := filepath.Join(configDir, secretFileName)
	if data, err := os.ReadFile(secretPath); err == nil && len(data) > 0 {
		return string(data)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Error generating secret: %v", err)
	}
	secret := hex.EncodeToString(buf)

	if err := os.WriteFile(secretPath, []byte(secret), 0600); err != nil {
		log.Printf("Warning: could not persist secret: %v", err)
	}
	return secret
}
