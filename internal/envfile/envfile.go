// Package envfile loads environment variables from .env files.
// Variables already set in the environment take precedence.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Load reads a .env file and sets any variables not already in the
// environment. An empty variable counts as unset. Returns nil if the file
// doesn't exist.
func Load(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading env file %s: %w", path, err)
	}

	for key, value := range vars {
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
	return nil
}

// LoadAll loads each file in order, so earlier files win over later ones.
// Every file is attempted; failures are joined.
func LoadAll(paths ...string) error {
	var errs []error
	for _, path := range paths {
		if err := Load(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
