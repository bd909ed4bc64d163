package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables consulted for flags that were not set.
const (
	EnvConfig   = "GDPDASH_CONFIG"
	EnvData     = "GDPDASH_DATA"
	EnvSettings = "GDPDASH_SETTINGS"
	EnvDBDir    = "GDPDASH_DB_DIR"
	EnvToken    = "GDPDASH_TOKEN"
)

// LoadEnv loads variables from the given .env files (".env" when none are
// given) without overriding variables already set. Missing files are
// ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// EnvOr returns the value of key, or def when it is unset or empty.
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
