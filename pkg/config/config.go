package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/utreexo-go/pkg/core/nodestore"
	"github.com/nspcc-dev/utreexo-go/pkg/core/storage/dbconfig"
	"gopkg.in/yaml.v3"
)

// Version is the version of the tool, set at build time.
var Version = "dev"

// DefaultConfigFile is the configuration file used when none is given.
const DefaultConfigFile = "./config/utreexo.yml"

// Config is the top level struct representing the config for the tool.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// ApplicationConfiguration is the application-level configuration.
type ApplicationConfiguration struct {
	LogLevel        string                   `yaml:"LogLevel"`
	LogPath         string                   `yaml:"LogPath"`
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
	NodeStore       nodestore.Config         `yaml:"NodeStore"`
}

// Default returns the configuration used for missing fields.
func Default() Config {
	return Config{
		ApplicationConfiguration: ApplicationConfiguration{
			LogLevel: "info",
			DBConfiguration: dbconfig.DBConfiguration{
				Type: dbconfig.LevelDB,
				LevelDBOptions: dbconfig.LevelDBOptions{
					DataDirectoryPath: "./chains/nodes",
				},
				BoltDBOptions: dbconfig.BoltDBOptions{
					FilePath: "./chains/nodes.bolt",
				},
			},
			NodeStore: nodestore.Config{
				CacheSize: nodestore.DefaultCacheSize,
			},
		},
	}
}

// LoadFile loads config from the provided path. Missing fields keep their
// Default values and relative paths are prefixed with relativePath if it's
// not empty.
func LoadFile(configPath string, relativePath ...string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config '%s' doesn't exist", configPath)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if len(relativePath) == 1 && relativePath[0] != "" {
		updateRelativePaths(relativePath[0], &config)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// updateRelativePaths updates relative paths in the config structure based on
// the provided relative path.
func updateRelativePaths(relativePath string, config *Config) {
	updatePath := func(path *string) {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(relativePath, *path)
		}
	}

	updatePath(&config.ApplicationConfiguration.LogPath)
	updatePath(&config.ApplicationConfiguration.DBConfiguration.LevelDBOptions.DataDirectoryPath)
	updatePath(&config.ApplicationConfiguration.DBConfiguration.BoltDBOptions.FilePath)
}

// Validate checks Config for internal consistency.
func (c Config) Validate() error {
	a := c.ApplicationConfiguration
	switch a.DBConfiguration.Type {
	case dbconfig.LevelDB:
		if a.DBConfiguration.LevelDBOptions.DataDirectoryPath == "" {
			return fmt.Errorf("empty LevelDB data directory path")
		}
	case dbconfig.BoltDB:
		if a.DBConfiguration.BoltDBOptions.FilePath == "" {
			return fmt.Errorf("empty BoltDB file path")
		}
	case dbconfig.InMemoryDB:
	default:
		return fmt.Errorf("unknown DB type: %q", a.DBConfiguration.Type)
	}
	if a.NodeStore.CacheSize < 0 {
		return fmt.Errorf("negative NodeStore.CacheSize: %d", a.NodeStore.CacheSize)
	}
	return nil
}
