package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFile loads .env and .env.local from the docs root into the process
// environment. Missing files are ignored and existing variables are never
// overwritten (godotenv.Load semantics).
func loadEnvFile(docsRoot string) error {
	if docsRoot == "" {
		docsRoot = "."
	}
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(docsRoot, name)
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}
