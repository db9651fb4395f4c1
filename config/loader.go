package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"dealdesk/server/internal/underwriting"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func loadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// LoadAssumptions overlays the YAML file at path onto DefaultAssumptions.
// Keys missing from the file keep their default. An empty path returns the
// defaults unchanged.
func LoadAssumptions(path string) (underwriting.MarketAssumptions, error) {
	assumptions := underwriting.DefaultAssumptions()
	if path == "" {
		return assumptions, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return assumptions, fmt.Errorf("failed to read assumptions file: %w", err)
	}
	if err := yaml.Unmarshal(data, &assumptions); err != nil {
		return assumptions, fmt.Errorf("failed to parse assumptions file: %w", err)
	}
	if err := assumptions.Validate(); err != nil {
		return assumptions, err
	}
	return assumptions, nil
}
