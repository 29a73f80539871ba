// This file implements Viper-based configuration management with
// environment overrides and hot reloading.

package configs

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of environment variable overrides, e.g.
// CATALOG_SERVER_PORT or CATALOG_DATA_DIR.
const envPrefix = "CATALOG"

// ViperConfig wraps a Config with Viper functionality. It provides
// thread-safe access to the configuration and notifies subscribers when
// the underlying file changes.
type ViperConfig struct {
	*Config
	viper       *viper.Viper
	configFile  string
	mu          sync.RWMutex
	subscribers []func(*Config)
}

// NewViperConfig loads and validates the configuration from a file,
// layering CATALOG_* environment variables on top.
func NewViperConfig(configFile string) (*ViperConfig, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	ext := filepath.Ext(configFile)
	v.SetConfigType(strings.TrimPrefix(ext, "."))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &ViperConfig{
		Config:      config,
		viper:       v,
		configFile:  configFile,
		subscribers: make([]func(*Config), 0),
	}, nil
}

// EnableHotReload enables hot reloading of the configuration file. When
// the file changes the configuration is reloaded, revalidated and all
// subscribers are notified. A file change that fails validation is
// dropped and the previous configuration stays active.
func (vc *ViperConfig) EnableHotReload() {
	vc.viper.WatchConfig()
	vc.viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := DefaultConfig()
		if err := vc.viper.Unmarshal(newConfig); err != nil {
			return
		}
		if err := newConfig.Validate(); err != nil {
			return
		}

		vc.mu.Lock()
		vc.Config = newConfig
		subscribers := make([]func(*Config), len(vc.subscribers))
		copy(subscribers, vc.subscribers)
		vc.mu.Unlock()

		for _, subscriber := range subscribers {
			subscriber(newConfig)
		}
	})
}

// Subscribe adds a subscriber invoked with the new configuration after
// every successful reload.
func (vc *ViperConfig) Subscribe(subscriber func(*Config)) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.subscribers = append(vc.subscribers, subscriber)
}

// Get returns the current configuration. Thread-safe.
func (vc *ViperConfig) Get() *Config {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.Config
}

// LoadViperConfig loads a configuration from a file using Viper and
// optionally enables hot reloading.
func LoadViperConfig(configFile string, enableHotReload bool) (*ViperConfig, error) {
	vc, err := NewViperConfig(configFile)
	if err != nil {
		return nil, err
	}
	if enableHotReload {
		vc.EnableHotReload()
	}
	return vc, nil
}
