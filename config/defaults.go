// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for system and app configuration files.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"defaultApp": "gridsheet",
		"log_file":   "",
	})
}

func applyAppDefaults(app string, cfg Config) {
	if cfg == nil {
		return
	}
	switch app {
	case "gridsheet":
		cfg.RegisterDefaults("gridsheet", Section{
			"rows":                 100,
			"cols":                 26,
			"col_width":            10,
			"locale":               "ko-KR",
			"paste_mode":           "numeric",
			"clipboard_timeout_ms": 300,
			"show_status":          true,
			"show_border":          false,
		})
		cfg.RegisterDefaults("gridsheet.colors", Section{
			"selected_bg": "navy",
			"fill_bg":     "teal",
			"handle_fg":   "yellow",
			"header_fg":   "black",
			"header_bg":   "silver",
		})
	}
}
