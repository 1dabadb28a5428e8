// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/core/painter.go
// Summary: Clipped drawing primitives over an app framebuffer.

package core

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelsheet/texel"
)

// Painter draws into a framebuffer, discarding anything outside its clip.
type Painter struct {
	buf  [][]texel.Cell
	clip Rect
}

// NewPainter clips to both clip and the buffer bounds.
func NewPainter(buf [][]texel.Cell, clip Rect) *Painter {
	h := len(buf)
	w := 0
	if h > 0 {
		w = len(buf[0])
	}
	return &Painter{buf: buf, clip: clip.Intersect(Rect{W: w, H: h})}
}

// Clip returns the active clip rectangle.
func (p *Painter) Clip() Rect { return p.clip }

// WithClip returns a painter restricted to the intersection of r and the
// current clip.
func (p *Painter) WithClip(r Rect) *Painter {
	return &Painter{buf: p.buf, clip: p.clip.Intersect(r)}
}

func (p *Painter) SetCell(x, y int, ch rune, style tcell.Style) {
	if !p.clip.Contains(x, y) {
		return
	}
	p.buf[y][x] = texel.Cell{Ch: ch, Style: style}
}

func (p *Painter) Fill(r Rect, ch rune, style tcell.Style) {
	r = r.Intersect(p.clip)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			p.buf[y][x] = texel.Cell{Ch: ch, Style: style}
		}
	}
}

// DrawText writes s starting at (x, y) and returns the number of columns
// used. Wide runes take two columns; the second is marked with Ch == 0.
func (p *Painter) DrawText(x, y int, s string, style tcell.Style) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		p.SetCell(col, y, r, style)
		if w == 2 {
			p.SetCell(col+1, y, 0, style)
		}
		col += w
	}
	return col - x
}

// DrawBorder draws a frame around r. charset is h, v, tl, tr, bl, br.
func (p *Painter) DrawBorder(r Rect, style tcell.Style, charset [6]rune) {
	if r.W < 2 || r.H < 2 {
		return
	}
	x1, y1 := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < x1; x++ {
		p.SetCell(x, r.Y, charset[0], style)
		p.SetCell(x, y1, charset[0], style)
	}
	for y := r.Y + 1; y < y1; y++ {
		p.SetCell(r.X, y, charset[1], style)
		p.SetCell(x1, y, charset[1], style)
	}
	p.SetCell(r.X, r.Y, charset[2], style)
	p.SetCell(x1, r.Y, charset[3], style)
	p.SetCell(r.X, y1, charset[4], style)
	p.SetCell(x1, y1, charset[5], style)
}
