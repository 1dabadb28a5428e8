// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/widgets/statusline.go
// Summary: One-line status bar showing the active cell, the selection
// summary and transient messages.

package widgets

import (
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelsheet/sheet"
	"github.com/framegrace/texelsheet/texelui/core"
)

// StatusLine renders "A1: value" on the left and "Count  Sum" on the
// right. A message set with SetMessage replaces the left side until the
// next selection change.
type StatusLine struct {
	core.BaseWidget
	Style tcell.Style

	ctrl *sheet.Controller
	inv  func(core.Rect)

	mu      sync.Mutex
	message string
	msgSel  string
}

func NewStatusLine(x, y, w int, ctrl *sheet.Controller, style tcell.Style) *StatusLine {
	s := &StatusLine{Style: style, ctrl: ctrl}
	s.SetPosition(x, y)
	s.Resize(w, 1)
	return s
}

func (s *StatusLine) SetInvalidator(fn func(core.Rect)) { s.inv = fn }

// SetMessage shows msg until the selection changes.
func (s *StatusLine) SetMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.msgSel = s.ctrl.Selection().String()
	s.mu.Unlock()
	if s.inv != nil {
		s.inv(s.Rect)
	}
}

// Left returns the text of the left side.
func (s *StatusLine) Left() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.ctrl.Selection()
	if s.message != "" && sel.String() == s.msgSel {
		return s.message
	}
	s.message = ""
	if sel.Start == nil {
		return ""
	}
	n := sel.Normalize()
	label := n.Start.A1()
	if *n.Start != *n.End {
		label = n.String()
	}
	value := strings.NewReplacer("\n", " ", "\t", " ").Replace(s.ctrl.Value(*sel.Start))
	return label + ": " + value
}

// Right returns the summary text, "" for single-cell selections.
func (s *StatusLine) Right() string {
	sum := s.ctrl.Summary()
	if sum.Cells < 2 {
		return ""
	}
	parts := []string{"Count: " + humanize.Comma(int64(sum.Cells))}
	if sum.Numbers > 0 {
		parts = append(parts, "Sum: "+humanize.CommafWithDigits(sum.Sum, 6))
	}
	return strings.Join(parts, "  ")
}

func (s *StatusLine) Draw(p *core.Painter) {
	p = p.WithClip(s.Rect)
	p.Fill(s.Rect, ' ', s.Style)
	right := s.Right()
	rw := runewidth.StringWidth(right)
	left := runewidth.Truncate(s.Left(), max(s.Rect.W-rw-3, 0), "…")
	p.DrawText(s.Rect.X+1, s.Rect.Y, left, s.Style)
	if right != "" && rw+1 < s.Rect.W {
		p.DrawText(s.Rect.X+s.Rect.W-rw-1, s.Rect.Y, right, s.Style)
	}
}
