package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/collegecompass/college-compass/internal/errors"
)

const configFileName = "scoring.json"

// ConfigStore persists the scoring configuration under the data directory.
type ConfigStore struct {
	dataDir string
}

// NewConfigStore creates a config store rooted at dataDir.
func NewConfigStore(dataDir string) *ConfigStore {
	return &ConfigStore{dataDir: dataDir}
}

// Load reads scoring.json from the data directory. A missing file yields
// the default config; a present but malformed or invalid file is a
// configuration error, never silently defaulted.
func (s *ConfigStore) Load() (ScoringConfig, error) {
	filePath := filepath.Join(s.dataDir, configFileName)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return ScoringConfig{}, errors.NewConfigurationError(
			fmt.Sprintf("failed to open scoring config %s", filePath), err)
	}
	defer file.Close()

	var cfg ScoringConfig
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return ScoringConfig{}, errors.NewConfigurationError(
			fmt.Sprintf("failed to decode scoring config %s", filePath), err)
	}

	if err := cfg.Validate(); err != nil {
		return ScoringConfig{}, err
	}

	return cfg, nil
}

// Save writes the config to scoring.json, creating the data directory if
// needed. The config is validated before anything touches disk.
func (s *ConfigStore) Save(cfg ScoringConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return errors.NewConfigurationError(
			fmt.Sprintf("failed to create data directory %s", s.dataDir), err)
	}

	filePath := filepath.Join(s.dataDir, configFileName)
	file, err := os.Create(filePath)
	if err != nil {
		return errors.NewConfigurationError(
			fmt.Sprintf("failed to create scoring config %s", filePath), err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return errors.NewConfigurationError(
			fmt.Sprintf("failed to encode scoring config %s", filePath), err)
	}

	return nil
}
