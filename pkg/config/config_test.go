package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/utreexo-go/pkg/core/nodestore"
	"github.com/nspcc-dev/utreexo-go/pkg/core/storage/dbconfig"
	"github.com/stretchr/testify/require"
)

const testConfigPath = "./testdata/utreexo.test.yml"

func writeConfig(t *testing.T, data string) string {
	p := filepath.Join(t.TempDir(), "utreexo.yml")
	require.NoError(t, os.WriteFile(p, []byte(data), 0644))
	return p
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(testConfigPath)
	require.NoError(t, err)

	a := cfg.ApplicationConfiguration
	require.Equal(t, "debug", a.LogLevel)
	require.Equal(t, dbconfig.BoltDB, a.DBConfiguration.Type)
	require.Equal(t, "./chains/test.bolt", a.DBConfiguration.BoltDBOptions.FilePath)
	require.Equal(t, 16, a.NodeStore.CacheSize)
	// Defaults are kept for missing fields.
	require.Equal(t, "./chains/nodes", a.DBConfiguration.LevelDBOptions.DataDirectoryPath)
}

func TestLoadFileRelativePath(t *testing.T) {
	cfg, err := LoadFile(testConfigPath, "/var/lib/utreexo")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/var/lib/utreexo", "chains/test.bolt"),
		cfg.ApplicationConfiguration.DBConfiguration.BoltDBOptions.FilePath)

	p := writeConfig(t, `
ApplicationConfiguration:
  LogPath: /tmp/utreexo.log
`)
	cfg, err = LoadFile(p, "/var/lib/utreexo")
	require.NoError(t, err)
	require.Equal(t, "/tmp/utreexo.log", cfg.ApplicationConfiguration.LogPath)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)

	testCases := map[string]string{
		"unknown field": `
ApplicationConfiguration:
  Unknown: 1
`,
		"unknown DB": `
ApplicationConfiguration:
  DBConfiguration:
    Type: redis
`,
		"negative cache": `
ApplicationConfiguration:
  NodeStore:
    CacheSize: -5
`,
		"empty bolt path": `
ApplicationConfiguration:
  DBConfiguration:
    Type: boltdb
    BoltDBOptions:
      FilePath: ""
`,
		"not YAML": `[}`,
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, data))
			require.Error(t, err)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, nodestore.DefaultCacheSize, cfg.ApplicationConfiguration.NodeStore.CacheSize)
}

func TestSampleConfig(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("..", "..", DefaultConfigFile))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}
