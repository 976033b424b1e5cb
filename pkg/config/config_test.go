package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	c := LoadFromEnv()
	require.Equal(t, 65536, c.MaxQueryLength)
	require.Equal(t, 15, c.MaxVLEUpperBound)
	require.Equal(t, "default", c.DefaultGraphNamespace)
	require.NoError(t, c.Validate())
}

func TestLoadFromEnvOverride(t *testing.T) {
	t.Setenv("CYPHERCORE_MAX_VLE_UPPER_BOUND", "3")
	c := LoadFromEnv()
	require.Equal(t, 3, c.MaxVLEUpperBound)
}

func TestValidateRejectsZeroLimits(t *testing.T) {
	c := &Config{MaxQueryLength: 0, MaxVLEUpperBound: 1, DefaultGraphNamespace: "g"}
	require.Error(t, c.Validate())
}

func TestLoadFromYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cyphercore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_vle_upper_bound: 7\n"), 0o644))

	base := LoadFromEnv()
	merged, err := LoadFromYAML(base, path)
	require.NoError(t, err)
	require.Equal(t, 7, merged.MaxVLEUpperBound)
	require.Equal(t, base.MaxQueryLength, merged.MaxQueryLength)
}
