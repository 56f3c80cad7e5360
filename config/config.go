// Package config loads and saves the small on-disk Config a process needs
// to open an Engine: where its boltdb files live, the default routing
// scope for callers that don't supply one, and the shared symmetric key
// every record is sealed with. Materialized as YAML with gopkg.in/yaml.v2,
// the teacher's own YAML dependency, rather than a bespoke flag parser or
// JSON file (spec.md's "Configuration" ambient-stack addition).
package config

import (
	"encoding/hex"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/routing"
)

// Config is the process-wide configuration loaded at startup.
type Config struct {
	// HomeDir is the directory boltdb files are created under. Routing
	// scopes are not split into separate files; they are sub-tree name
	// prefixes inside one kv.Store.
	HomeDir string `yaml:"home_dir"`
	// DefaultScope is used by callers that don't supply their own scope
	// (e.g. a single-tenant embedding of the store).
	DefaultScope routing.Scope `yaml:"default_scope"`
	// SharedKeyHex is the hex-encoded 32-byte key every record is sealed
	// with; see codec.KeySize.
	SharedKeyHex string `yaml:"shared_key_hex"`
}

// Load reads and parses a Config from path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.BackendError.Wrap(err, "reading config "+path)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, ferrors.BackendError.Wrap(err, "parsing config "+path)
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML, creating or truncating the file.
func (cfg *Config) Save(path string) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return ferrors.BackendError.Wrap(err, "encoding config")
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return ferrors.BackendError.Wrap(err, "writing config "+path)
	}
	return nil
}

// Key decodes SharedKeyHex into a codec.Key.
func (cfg *Config) Key() (codec.Key, error) {
	raw, err := hex.DecodeString(cfg.SharedKeyHex)
	if err != nil {
		return codec.Key{}, ferrors.BackendError.Wrap(err, "decoding shared_key_hex")
	}
	return codec.NewKey(raw)
}
