// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Parses the embedded default JSON files in defaults/.

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/framegrace/texelsheet/defaults"
)

var (
	embeddedMu    sync.Mutex
	embeddedCache = make(map[string]Config)
)

// embeddedDefaults returns a private copy of the embedded defaults for app,
// or for texelsheet.json when app is empty. It returns nil when nothing is
// embedded under that name.
func embeddedDefaults(app string) Config {
	embeddedMu.Lock()
	cfg, ok := embeddedCache[app]
	if !ok {
		var err error
		cfg, err = parseEmbedded(app)
		if err != nil {
			log.Printf("Config: Embedded defaults for %q unusable: %v", app, err)
		}
		embeddedCache[app] = cfg
	}
	embeddedMu.Unlock()
	return copyConfig(cfg)
}

func parseEmbedded(app string) (Config, error) {
	var (
		data []byte
		err  error
	)
	if app == "" {
		data, err = defaults.SystemConfig()
	} else {
		data, err = defaults.AppConfig(app)
	}
	if err != nil {
		// Apps without an embedded file only get the registered defaults.
		return nil, nil
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return cfg, nil
}

// copyConfig copies cfg one level deep so sections can be edited without
// touching the cache.
func copyConfig(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	out := make(Config, len(cfg))
	for name, raw := range cfg {
		section, ok := raw.(map[string]interface{})
		if !ok {
			out[name] = raw
			continue
		}
		dup := make(Section, len(section))
		for k, v := range section {
			dup[k] = v
		}
		out[name] = dup
	}
	return out
}
