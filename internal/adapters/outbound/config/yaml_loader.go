package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/relkit/relkit/internal/domain"
	"gopkg.in/yaml.v3"
)

const fileName = ".relkit.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .relkit.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .relkit.yaml from projectRoot. Returns DefaultProjectConfig
// if the file does not exist: the config file is optional.
func (l *YAMLLoader) Load(projectRoot string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectRoot, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultProjectConfig(), nil
		}
		return domain.ProjectConfig{}, err
	}

	cfg := domain.DefaultProjectConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	if cfg.LongFileThreshold <= 0 {
		cfg.LongFileThreshold = domain.DefaultProjectConfig().LongFileThreshold
	}

	return cfg, nil
}
