// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: System + app configuration store for texelsheet.

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const systemConfigName = "texelsheet.json"

// Config stores configuration sections as JSON-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

var (
	mu      sync.RWMutex
	once    sync.Once
	system  Config
	apps    map[string]Config
	loadErr error
)

// Err returns the most recent system config load error.
func Err() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

// System returns the system configuration (texelsheet.json).
func System() Config {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return system
}

// App returns the config for a named app (apps/<app>/config.json).
func App(name string) Config {
	if name == "" {
		return nil
	}
	once.Do(initStore)

	mu.RLock()
	cfg := apps[name]
	mu.RUnlock()
	if cfg != nil {
		return cfg
	}

	mu.Lock()
	defer mu.Unlock()
	if cfg, ok := apps[name]; ok {
		return cfg
	}

	loaded, err := loadAppLocked(name)
	if err != nil {
		log.Printf("Config: Failed to load app %q config: %v", name, err)
		loaded = make(Config)
		applyAppDefaults(name, loaded)
	}
	apps[name] = loaded
	return loaded
}

// UpdateApp applies fn to the named app config under the store lock and
// writes the result to apps/<name>/config.json.
func UpdateApp(name string, fn func(Config)) error {
	cfg := App(name)
	if cfg == nil {
		return fmt.Errorf("app name is required")
	}
	path, err := appConfigPath(name)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	fn(cfg)
	if err := writeConfig(path, cfg); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("Config: Saved app %q config to %s", name, path)
	return nil
}

func initStore() {
	mu.Lock()
	defer mu.Unlock()
	system = make(Config)
	apps = make(map[string]Config)
	loadErr = loadSystemLocked()
}

func readConfig(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

func writeConfig(path string, cfg Config) error {
	if cfg == nil {
		cfg = make(Config)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
