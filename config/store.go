// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Loads config files, seeding missing ones from embedded defaults.

package config

import (
	"fmt"
	"log"
)

// fileSource describes one config file: where it lives, what to seed it
// with when it is missing or empty, and which defaults fill absent keys.
type fileSource struct {
	label    string
	path     string
	defaults func() Config
	apply    func(Config)
}

func loadSystemLocked() error {
	path, err := systemConfigPath()
	if err != nil {
		log.Printf("Config: Failed to resolve system config path: %v", err)
		system = make(Config)
		applySystemDefaults(system)
		return err
	}
	cfg, err := loadFile(fileSource{
		label:    "system",
		path:     path,
		defaults: func() Config { return embeddedDefaults("") },
		apply:    applySystemDefaults,
	})
	system = cfg
	return err
}

func loadAppLocked(name string) (Config, error) {
	path, err := appConfigPath(name)
	if err != nil {
		return nil, err
	}
	return loadFile(fileSource{
		label:    fmt.Sprintf("app %q", name),
		path:     path,
		defaults: func() Config { return embeddedDefaults(name) },
		apply:    func(cfg Config) { applyAppDefaults(name, cfg) },
	})
}

// loadFile reads src.path. A missing or empty file is seeded from the
// embedded defaults and written back. The returned config is never nil
// and always carries the built-in defaults, even when an error is returned.
func loadFile(src fileSource) (Config, error) {
	cfg, exists, err := readConfig(src.path)
	if err != nil {
		log.Printf("Config: Failed to read %s config %s: %v", src.label, src.path, err)
		cfg = make(Config)
		src.apply(cfg)
		return cfg, err
	}

	if len(cfg) > 0 {
		src.apply(cfg)
		log.Printf("Config: Loaded %s config from %s", src.label, src.path)
		return cfg, nil
	}

	seed := src.defaults()
	if seed == nil {
		seed = make(Config)
	}
	src.apply(seed)
	if werr := writeConfig(src.path, seed); werr != nil {
		log.Printf("Config: Failed to write default %s config: %v", src.label, werr)
		return seed, werr
	}
	if exists {
		log.Printf("Config: Replaced empty %s config at %s", src.label, src.path)
	} else {
		log.Printf("Config: Wrote default %s config to %s", src.label, src.path)
	}
	return seed, nil
}
