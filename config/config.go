package config

import (
	"fmt"
	"os"
	"strings"

	"launchpad/crypto"

	"github.com/BurntSushi/toml"
)

// Config carries the deployment-level settings the sale engine cannot derive
// from state: the root authority allow-list and the fee receiver identity.
type Config struct {
	RootKeys    []string `toml:"RootKeys"`
	FeeReceiver string   `toml:"FeeReceiver"`
}

// Load loads the configuration from the given path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s not found", path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s contains unknown field %s", path, undecoded[0])
	}

	if cfg.RootKeys == nil {
		cfg.RootKeys = []string{}
	}
	return cfg, nil
}

// Validate checks that the configuration names at least one root authority and
// that every identity parses as a bech32 address.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if len(c.RootKeys) == 0 {
		return fmt.Errorf("config: at least one root key required")
	}
	if _, err := c.RootAddresses(); err != nil {
		return err
	}
	if strings.TrimSpace(c.FeeReceiver) == "" {
		return fmt.Errorf("config: fee receiver required")
	}
	if _, err := c.FeeReceiverAddress(); err != nil {
		return err
	}
	return nil
}

// RootAddresses decodes the configured root keys into fixed-width identities.
func (c *Config) RootAddresses() ([][20]byte, error) {
	out := make([][20]byte, 0, len(c.RootKeys))
	for _, key := range c.RootKeys {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		addr, err := crypto.DecodeAddress(trimmed)
		if err != nil {
			return nil, fmt.Errorf("config: invalid root key %q: %w", key, err)
		}
		out = append(out, addr.Array())
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("config: at least one root key required")
	}
	return out, nil
}

// FeeReceiverAddress decodes the configured fee receiver identity.
func (c *Config) FeeReceiverAddress() ([20]byte, error) {
	addr, err := crypto.DecodeAddress(strings.TrimSpace(c.FeeReceiver))
	if err != nil {
		return [20]byte{}, fmt.Errorf("config: invalid fee receiver %q: %w", c.FeeReceiver, err)
	}
	return addr.Array(), nil
}
