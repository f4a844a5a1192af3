package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. OLEDSTAT_DISPLAY_SINK.
const EnvPrefix = "OLEDSTAT"

// Load reads the configuration at path, layered over the defaults and
// under OLEDSTAT_* environment overrides. An empty path loads defaults and
// environment only. Files ending in .lua are executed as Lua; anything else
// is read by viper according to its extension.
// The returned Config has been env-expanded and validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range defaultsMap() {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if err := readInto(v, path); err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}

	ExpandEnvConfig(&cfg)

	if err := Validate(&cfg).Error(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readInto(v *viper.Viper, path string) error {
	if isLuaPath(path) {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		p, err := NewLuaConfigParser()
		if err != nil {
			return fmt.Errorf("failed to create Lua parser: %w", err)
		}
		defer p.Close()

		values, err := p.Parse(content)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := v.MergeConfigMap(values); err != nil {
			return fmt.Errorf("merging %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

func isLuaPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".lua")
}
