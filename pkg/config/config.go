package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/goliatone/go-config/cfgx"
)

// Config captures module-level configuration knobs. The vault and storage
// packages pull from these nested structs; nothing reads process-global
// state directly.
type Config struct {
	Vault   VaultConfig   `mapstructure:"vault" json:"vault"`
	Storage StorageConfig `mapstructure:"storage" json:"storage"`
}

// VaultConfig locates the encrypted credential file and its passphrase.
type VaultConfig struct {
	DataDir       string `mapstructure:"data_dir" json:"data_dir"`
	FileName      string `mapstructure:"file_name" json:"file_name"`
	PassphraseEnv string `mapstructure:"passphrase_env" json:"passphrase_env"`
	Strict        bool   `mapstructure:"strict" json:"strict"`
}

// Path returns the full vault file location.
func (v VaultConfig) Path() string {
	return filepath.Join(v.DataDir, v.FileName)
}

// StorageConfig selects the deployment-status backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" json:"driver"`
	DSN    string `mapstructure:"dsn" json:"dsn"`
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Vault: VaultConfig{
			DataDir:       "data",
			FileName:      "secrets.enc",
			PassphraseEnv: "VAULT_PASSPHRASE",
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
			DSN:    "file:data/deployments.db?cache=shared",
		},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Vault.DataDir == "" {
		return errors.New("vault.data_dir is required")
	}
	if c.Vault.FileName == "" {
		return errors.New("vault.file_name is required")
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q", DriverMemory, DriverSQLite)
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers.
// While cfgx.Build still returns zero values, we fallback to a lightweight
// decoder to keep smoke tests meaningful. Once cfgx is fully implemented we
// can drop the fallback.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.Vault.DataDir == "" {
		c.Vault.DataDir = defaults.Vault.DataDir
	}
	if c.Vault.FileName == "" {
		c.Vault.FileName = defaults.Vault.FileName
	}
	if c.Vault.PassphraseEnv == "" {
		c.Vault.PassphraseEnv = defaults.Vault.PassphraseEnv
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaults.Storage.Driver
	}
	if c.Storage.DSN == "" {
		c.Storage.DSN = defaults.Storage.DSN
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
