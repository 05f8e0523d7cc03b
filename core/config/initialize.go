package config

import (
	"log"
	"os"
	"path/filepath"
)

// Initialize writes the default configuration into the directory and
// loads it back. An existing config.yaml is left alone so running init
// twice is safe.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	configPath := filepath.Join(path, ConfigurationName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Printf("creating %s", configPath)
		if err := os.WriteFile(configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	} else {
		logger.Printf("%s already exists, leaving it alone", configPath)
	}

	return Load(path)
}
