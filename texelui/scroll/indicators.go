// Copyright 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/scroll/indicators.go
// Summary: Scroll indicator rendering for scrollable widgets.
// Provides reusable glyphs (▲/▼, ◀/▶) that show when content overflows.

package scroll

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelsheet/texelui/core"
)

// Default indicator glyphs.
const (
	DefaultUpGlyph    = '▲'
	DefaultDownGlyph  = '▼'
	DefaultLeftGlyph  = '◀'
	DefaultRightGlyph = '▶'
)

// IndicatorConfig configures the appearance of scroll indicators.
type IndicatorConfig struct {
	// Style is the tcell style for indicator glyphs.
	Style tcell.Style

	// Glyphs shown when content lies before or after the viewport. Zero
	// values fall back to the defaults.
	UpGlyph, DownGlyph, LeftGlyph, RightGlyph rune
}

// DefaultIndicatorConfig returns a default configuration with standard glyphs.
func DefaultIndicatorConfig(style tcell.Style) IndicatorConfig {
	return IndicatorConfig{
		Style:      style,
		UpGlyph:    DefaultUpGlyph,
		DownGlyph:  DefaultDownGlyph,
		LeftGlyph:  DefaultLeftGlyph,
		RightGlyph: DefaultRightGlyph,
	}
}

// DrawVertical renders ▲ at the top and ▼ at the bottom of column x of
// rect when rows overflow.
func DrawVertical(painter *core.Painter, rect core.Rect, x int, rows State, config IndicatorConfig) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	if rows.CanScrollUp() {
		painter.SetCell(x, rect.Y, glyphOr(config.UpGlyph, DefaultUpGlyph), config.Style)
	}
	if rows.CanScrollDown() {
		painter.SetCell(x, rect.Y+rect.H-1, glyphOr(config.DownGlyph, DefaultDownGlyph), config.Style)
	}
}

// DrawHorizontal renders ◀ at the left and ▶ at the right of row y of rect
// when columns overflow.
func DrawHorizontal(painter *core.Painter, rect core.Rect, y int, cols State, config IndicatorConfig) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	if cols.CanScrollUp() {
		painter.SetCell(rect.X, y, glyphOr(config.LeftGlyph, DefaultLeftGlyph), config.Style)
	}
	if cols.CanScrollDown() {
		painter.SetCell(rect.X+rect.W-1, y, glyphOr(config.RightGlyph, DefaultRightGlyph), config.Style)
	}
}

func glyphOr(g, fallback rune) rune {
	if g == 0 {
		return fallback
	}
	return g
}
