package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foliant-db/foliant/routing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := &Config{
		HomeDir:      dir,
		DefaultScope: routing.Scope{Account: "acct", Site: "main"},
		SharedKeyHex: "3031323334353637383930313233343536373839303132333435363738393031",
	}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.HomeDir, loaded.HomeDir)
	require.Equal(t, cfg.DefaultScope, loaded.DefaultScope)
	require.Equal(t, cfg.SharedKeyHex, loaded.SharedKeyHex)
}

func TestKeyDecodesHex(t *testing.T) {
	cfg := &Config{SharedKeyHex: "00000000000000000000000000000000000000000000000000000000000000"}
	_, err := cfg.Key()
	require.Error(t, err) // 31 raw bytes, not 32

	cfg.SharedKeyHex = "3031323334353637383930313233343536373839303132333435363738393031"
	key, err := cfg.Key()
	require.NoError(t, err)
	require.NotZero(t, key)
}
