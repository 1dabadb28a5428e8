// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/gridsheet/settings.go
// Summary: Typed view of the gridsheet app config.

package gridsheet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelsheet/config"
	"github.com/framegrace/texelsheet/sheet"
	"github.com/framegrace/texelsheet/texelui/widgets"
)

// AppName is the config name of the app.
const AppName = "gridsheet"

const (
	sectionMain   = "gridsheet"
	sectionColors = "gridsheet.colors"
)

// Settings are the resolved gridsheet options.
type Settings struct {
	Rows             int
	Cols             int
	ColWidth         int
	Format           sheet.NumberFormat
	PasteMode        sheet.PasteMode
	ClipboardTimeout time.Duration
	ShowStatus       bool
	ShowBorder       bool
	Styles           widgets.GridStyles
}

// LoadSettings reads cfg. Invalid values are replaced by their defaults and
// reported together in the returned error; the settings are always usable.
func LoadSettings(cfg config.Config) (Settings, error) {
	var errs []error
	s := Settings{
		Rows:             positive(cfg.GetInt(sectionMain, "rows", 100), 100),
		Cols:             positive(cfg.GetInt(sectionMain, "cols", 26), 26),
		ColWidth:         positive(cfg.GetInt(sectionMain, "col_width", widgets.DefaultColWidth), widgets.DefaultColWidth),
		ClipboardTimeout: cfg.GetMillis(sectionMain, "clipboard_timeout_ms", DefaultClipboardTimeout),
		ShowStatus:       cfg.GetBool(sectionMain, "show_status", true),
		ShowBorder:       cfg.GetBool(sectionMain, "show_border", false),
		Styles:           widgets.DefaultGridStyles(),
	}

	format, err := sheet.NewNumberFormat(cfg.GetString(sectionMain, "locale", sheet.DefaultLocale))
	if err != nil {
		errs = append(errs, err)
		format = sheet.MustNumberFormat(sheet.DefaultLocale)
	}
	s.Format = format

	mode, err := sheet.ParsePasteMode(cfg.GetString(sectionMain, "paste_mode", "numeric"))
	if err != nil {
		errs = append(errs, err)
	}
	s.PasteMode = mode

	color := func(key string, def tcell.Color) tcell.Color {
		name := cfg.GetString(sectionColors, key, "")
		if name == "" {
			return def
		}
		c, err := parseColor(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", sectionColors, key, err))
			return def
		}
		return c
	}
	st := &s.Styles
	st.Selected = st.Selected.Background(color("selected_bg", tcell.ColorNavy))
	st.FillTarget = st.FillTarget.Background(color("fill_bg", tcell.ColorTeal))
	st.Handle = st.Handle.Foreground(color("handle_fg", tcell.ColorYellow))
	st.Header = st.Header.
		Foreground(color("header_fg", tcell.ColorBlack)).
		Background(color("header_bg", tcell.ColorSilver))
	st.Tokens = map[string]tcell.Style{
		"negative": st.Cell.Foreground(tcell.ColorRed),
	}

	return s, errors.Join(errs...)
}

// parseColor accepts tcell color names ("navy", "darkslategray") and
// #rrggbb hex values.
func parseColor(name string) (tcell.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "default" {
		return tcell.ColorDefault, nil
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return c, fmt.Errorf("unknown color %q", name)
	}
	return c, nil
}

func positive(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// DefaultFormat is the number format selected by the gridsheet config.
func DefaultFormat() sheet.NumberFormat {
	s, _ := LoadSettings(config.App(AppName))
	return s.Format
}

// SaveOverrides stores the non-zero values in the gridsheet app config so
// later runs start with them.
func SaveOverrides(rows, cols int, locale string) error {
	if rows <= 0 && cols <= 0 && locale == "" {
		return fmt.Errorf("nothing to save: set rows, cols or locale")
	}
	if locale != "" {
		if _, err := sheet.NewNumberFormat(locale); err != nil {
			return err
		}
	}
	return config.UpdateApp(AppName, func(cfg config.Config) {
		if rows > 0 {
			cfg.Set(sectionMain, "rows", rows)
		}
		if cols > 0 {
			cfg.Set(sectionMain, "cols", cols)
		}
		if locale != "" {
			cfg.Set(sectionMain, "locale", locale)
		}
	})
}
