// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/widgets/gridview_editor.go
// Summary: In-cell text editor used by GridView.

package widgets

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/framegrace/texelsheet/sheet"
)

// cellEditor holds the text being typed into one cell. The caret is always
// at the end.
type cellEditor struct {
	coord sheet.CellCoord
	text  string
}

func (e *cellEditor) insert(s string) {
	e.text += s
}

// backspace removes the last grapheme cluster, so combining marks and
// emoji sequences go in one keypress.
func (e *cellEditor) backspace() {
	g := uniseg.NewGraphemes(e.text)
	last := 0
	for g.Next() {
		last, _ = g.Positions()
	}
	e.text = e.text[:last]
}

// view returns the tail of the text that fits width columns, followed by
// the caret.
func (e *cellEditor) view(width int) string {
	if width <= 0 {
		return ""
	}
	s := e.text
	for runewidth.StringWidth(s) > width-1 {
		_, size := firstRune(s)
		s = s[size:]
	}
	return runewidth.FillRight(s+"▏", width)
}

func firstRune(s string) (rune, int) {
	for i, r := range s {
		if i > 0 {
			return r, i
		}
	}
	return 0, len(s)
}

// beginEdit opens the editor on the selection anchor. With replace the
// editor starts from initial, otherwise from the cell's current value.
func (g *GridView) beginEdit(initial string, replace bool) bool {
	sel := g.ctrl.Selection()
	if sel.Start == nil {
		return false
	}
	anchor := *sel.Start
	text := initial
	if !replace {
		text = g.ctrl.Value(anchor)
	}
	g.ctrl.SetSelection(sheet.RangeOf(anchor, anchor))
	g.editor = cellEditor{coord: anchor, text: text}
	g.editing = true
	return true
}

// commitEdit writes the editor text back as a single-cell batch.
func (g *GridView) commitEdit() {
	if !g.editing {
		return
	}
	g.editing = false
	g.ctrl.SetValue(g.editor.coord, g.editor.text)
}

func (g *GridView) cancelEdit() {
	g.editing = false
}

func (g *GridView) handleEditKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEnter:
		g.commitEdit()
		g.ctrl.MoveSelection(1, 0, false)
	case tcell.KeyTab:
		g.commitEdit()
		g.ctrl.MoveSelection(0, 1, false)
	case tcell.KeyBacktab:
		g.commitEdit()
		g.ctrl.MoveSelection(0, -1, false)
	case tcell.KeyEscape:
		g.cancelEdit()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		g.editor.backspace()
	case tcell.KeyRune:
		g.editor.insert(string(ev.Rune()))
	}
	g.ensureSelectionVisible()
	g.Refresh()
	return true
}
