// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/widgets/gridview.go
// Summary: Spreadsheet grid widget rendering a sheet.Controller and turning
// terminal mouse and key events into controller operations.

package widgets

import (
	"context"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelsheet/sheet"
	"github.com/framegrace/texelsheet/texelui/core"
	"github.com/framegrace/texelsheet/texelui/scroll"
)

// FillHandleGlyph marks the fill handle in the last column of the
// bottom-right selected cell.
const FillHandleGlyph = '■'

// DefaultColWidth is used when GridView.ColWidth is not positive.
const DefaultColWidth = 10

const wheelStep = 3

// GridStyles are the styles a GridView paints with. Selected and
// FillTarget contribute only their background; Tokens maps StyleFunc
// tokens to a replacement base style.
type GridStyles struct {
	Cell       tcell.Style
	Header     tcell.Style
	Selected   tcell.Style
	FillTarget tcell.Style
	Handle     tcell.Style
	Editor     tcell.Style
	Indicator  tcell.Style
	Tokens     map[string]tcell.Style
}

// DefaultGridStyles is a readable scheme for dark terminals.
func DefaultGridStyles() GridStyles {
	return GridStyles{
		Cell:       tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
		Header:     tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
		Selected:   tcell.StyleDefault.Background(tcell.ColorNavy),
		FillTarget: tcell.StyleDefault.Background(tcell.ColorTeal),
		Handle:     tcell.StyleDefault.Foreground(tcell.ColorYellow),
		Editor:     tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
		Indicator:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorSilver),
	}
}

// GridView draws a header row, a row-number gutter and a scrolling window
// of cells. Pointer releases are not handled here: the controller learns
// about them through its mounted host, wherever the release happens.
type GridView struct {
	core.BaseWidget
	Styles   GridStyles
	ColWidth int
	// Notify receives short status messages ("Copied A1:B2").
	Notify func(string)

	ctrl *sheet.Controller
	ctx  context.Context
	rows scroll.State
	cols scroll.State
	inv  func(core.Rect)

	pressed   bool
	lastEnter sheet.CellCoord

	editing bool
	editor  cellEditor
}

// NewGridView wraps a controller.
func NewGridView(x, y, w, h int, ctrl *sheet.Controller) *GridView {
	g := &GridView{
		Styles:   DefaultGridStyles(),
		ColWidth: DefaultColWidth,
		ctrl:     ctrl,
		ctx:      context.Background(),
	}
	g.SetFocusable(true)
	g.SetPosition(x, y)
	g.Resize(w, h)
	return g
}

// Controller returns the wrapped controller.
func (g *GridView) Controller() *sheet.Controller { return g.ctrl }

// SetContext bounds clipboard operations started by key presses.
func (g *GridView) SetContext(ctx context.Context) { g.ctx = ctx }

func (g *GridView) SetInvalidator(fn func(core.Rect)) { g.inv = fn }

// Refresh marks the whole grid dirty. Safe to call from any goroutine.
func (g *GridView) Refresh() {
	if g.inv != nil {
		g.inv(g.Rect)
	}
}

func (g *GridView) Resize(w, h int) {
	g.BaseWidget.Resize(w, h)
	g.syncViewport()
}

// RowOffset and ColOffset report the first visible row and column.
func (g *GridView) RowOffset() int { return g.rows.Offset }
func (g *GridView) ColOffset() int { return g.cols.Offset }

// Editing reports whether the in-cell editor is open.
func (g *GridView) Editing() bool { return g.editing }

// --- Geometry ---

func (g *GridView) colWidth() int {
	if g.ColWidth <= 0 {
		return DefaultColWidth
	}
	return g.ColWidth
}

// gutterWidth fits the largest row number plus one space.
func (g *GridView) gutterWidth() int {
	return max(len(strconv.Itoa(g.ctrl.Store().Rows())), 2) + 1
}

// cellArea is the part of the widget showing cells.
func (g *GridView) cellArea() core.Rect {
	gw := g.gutterWidth()
	return core.Rect{
		X: g.Rect.X + gw,
		Y: g.Rect.Y + 1,
		W: max(g.Rect.W-gw, 0),
		H: max(g.Rect.H-1, 0),
	}
}

func (g *GridView) syncViewport() {
	if g.ctrl == nil {
		return
	}
	store := g.ctrl.Store()
	area := g.cellArea()
	g.rows = g.rows.WithContent(store.Rows()).WithViewport(area.H)
	g.cols = g.cols.WithContent(store.Cols()).WithViewport(area.W / g.colWidth())
}

// cellOrigin is the screen position of a cell's first column.
func (g *GridView) cellOrigin(c sheet.CellCoord) (int, int) {
	area := g.cellArea()
	return area.X + (c.Col-g.cols.Offset)*g.colWidth(), area.Y + (c.Row - g.rows.Offset)
}

// CellAt maps a screen position to the visible cell under it.
func (g *GridView) CellAt(x, y int) (sheet.CellCoord, bool) {
	g.syncViewport()
	area := g.cellArea()
	if !area.Contains(x, y) {
		return sheet.CellCoord{}, false
	}
	c := sheet.At(g.rows.Offset+(y-area.Y), g.cols.Offset+(x-area.X)/g.colWidth())
	if !g.rows.IsVisible(c.Row) || !g.cols.IsVisible(c.Col) {
		return sheet.CellCoord{}, false
	}
	return c, true
}

// dragCell maps any screen position to the nearest cell, one step past the
// viewport edge so that dragging outside scrolls.
func (g *GridView) dragCell(x, y int) (sheet.CellCoord, bool) {
	store := g.ctrl.Store()
	if store.Rows() == 0 || store.Cols() == 0 {
		return sheet.CellCoord{}, false
	}
	area := g.cellArea()
	row := g.rows.Offset + (y - area.Y)
	col := g.cols.Offset + floorDiv(x-area.X, g.colWidth())
	row = min(max(row, g.rows.Offset-1), g.rows.Last()+1)
	col = min(max(col, g.cols.Offset-1), g.cols.Last()+1)
	row = min(max(row, 0), store.Rows()-1)
	col = min(max(col, 0), store.Cols()-1)
	return sheet.At(row, col), true
}

// isHandleAt reports whether (x, y) is the fill handle glyph.
func (g *GridView) isHandleAt(x, y int) (sheet.CellCoord, bool) {
	c, ok := g.CellAt(x, y)
	if !ok || !g.ctrl.IsFillHandle(c) {
		return sheet.CellCoord{}, false
	}
	cx, _ := g.cellOrigin(c)
	return c, x == cx+g.colWidth()-1
}

func (g *GridView) ensureVisible(c sheet.CellCoord) {
	g.syncViewport()
	g.rows = g.rows.EnsureVisible(c.Row)
	g.cols = g.cols.EnsureVisible(c.Col)
}

func (g *GridView) ensureSelectionVisible() {
	sel := g.ctrl.Selection()
	switch {
	case sel.End != nil:
		g.ensureVisible(*sel.End)
	case sel.Start != nil:
		g.ensureVisible(*sel.Start)
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// --- Input ---

// HandleMouse implements core.MouseAware.
func (g *GridView) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	buttons := ev.Buttons()
	g.syncViewport()

	switch {
	case buttons&tcell.WheelUp != 0:
		g.rows = g.rows.ScrollBy(-wheelStep)
	case buttons&tcell.WheelDown != 0:
		g.rows = g.rows.ScrollBy(wheelStep)
	case buttons&tcell.WheelLeft != 0:
		g.cols = g.cols.ScrollBy(-1)
	case buttons&tcell.WheelRight != 0:
		g.cols = g.cols.ScrollBy(1)
	case buttons&tcell.Button1 != 0 && !g.pressed:
		g.pressed = true
		g.commitEdit()
		if c, ok := g.isHandleAt(x, y); ok {
			g.ctrl.FillHandleDown(c)
			g.lastEnter = c
		} else if c, ok := g.CellAt(x, y); ok {
			g.ctrl.PointerDown(c)
			g.lastEnter = c
		}
	case buttons&tcell.Button1 != 0:
		c, ok := g.dragCell(x, y)
		if !ok || c == g.lastEnter {
			return true
		}
		g.lastEnter = c
		g.ctrl.PointerEnter(c)
		g.ensureVisible(c)
	case buttons == tcell.ButtonNone:
		if !g.pressed {
			return false
		}
		g.pressed = false
	default:
		return false
	}
	g.Refresh()
	return true
}

// HandleKey maps terminal keys to the controller's keyboard contract and
// to navigation. Ctrl+C, Ctrl+V, Delete and Backspace go through
// Controller.HandleKey.
func (g *GridView) HandleKey(ev *tcell.EventKey) bool {
	if g.editing {
		return g.handleEditKey(ev)
	}
	g.syncViewport()
	shift := ev.Modifiers()&tcell.ModShift != 0
	meta := ev.Modifiers()&(tcell.ModAlt|tcell.ModMeta) != 0

	switch ev.Key() {
	case tcell.KeyCtrlC:
		g.copySelection(sheet.KeyEvent{Code: sheet.KeyRune, Rune: 'c', Ctrl: true})
	case tcell.KeyCtrlV:
		g.ctrl.HandleKey(g.ctx, sheet.KeyEvent{Code: sheet.KeyRune, Rune: 'v', Ctrl: true})
	case tcell.KeyDelete:
		g.ctrl.HandleKey(g.ctx, sheet.KeyEvent{Code: sheet.KeyDelete})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		g.ctrl.HandleKey(g.ctx, sheet.KeyEvent{Code: sheet.KeyBackspace})
	case tcell.KeyUp:
		g.ctrl.MoveSelection(-1, 0, shift)
	case tcell.KeyDown:
		g.ctrl.MoveSelection(1, 0, shift)
	case tcell.KeyLeft:
		g.ctrl.MoveSelection(0, -1, shift)
	case tcell.KeyRight:
		g.ctrl.MoveSelection(0, 1, shift)
	case tcell.KeyPgUp:
		g.ctrl.MoveSelection(-max(g.rows.Viewport, 1), 0, shift)
	case tcell.KeyPgDn:
		g.ctrl.MoveSelection(max(g.rows.Viewport, 1), 0, shift)
	case tcell.KeyHome:
		g.ctrl.MoveSelection(0, -g.cols.Content, shift)
	case tcell.KeyEnd:
		g.ctrl.MoveSelection(0, g.cols.Content, shift)
	case tcell.KeyEscape:
		g.ctrl.ClearSelection()
	case tcell.KeyEnter, tcell.KeyF2:
		if !g.beginEdit("", false) {
			return false
		}
	case tcell.KeyRune:
		r := ev.Rune()
		if meta {
			if !g.handleMetaRune(r) {
				return false
			}
			break
		}
		if !g.beginEdit(string(r), true) {
			return false
		}
	default:
		return false
	}
	g.ensureSelectionVisible()
	g.Refresh()
	return true
}

// handleMetaRune covers terminals that report Cmd/Alt+C and Cmd/Alt+V as
// modified runes.
func (g *GridView) handleMetaRune(r rune) bool {
	ev := sheet.KeyEvent{Code: sheet.KeyRune, Rune: r, Meta: true}
	switch r {
	case 'c', 'C':
		g.copySelection(ev)
		return true
	case 'v', 'V':
		return g.ctrl.HandleKey(g.ctx, ev)
	}
	return false
}

func (g *GridView) copySelection(ev sheet.KeyEvent) {
	g.ctrl.HandleKey(g.ctx, ev)
	if sel := g.ctrl.Selection(); !sel.IsEmpty() && g.Notify != nil {
		g.Notify("Copied " + sel.Normalize().String())
	}
}

// Paste applies a bracketed paste at the selection anchor.
func (g *GridView) Paste(text string) int {
	if g.editing {
		g.editor.insert(text)
		g.Refresh()
		return 0
	}
	n := g.ctrl.PasteText(text)
	if n > 0 && g.Notify != nil {
		g.Notify("Pasted " + strconv.Itoa(n) + " cells")
	}
	g.Refresh()
	return n
}

// --- Drawing ---

func (g *GridView) Draw(p *core.Painter) {
	if g.ctrl == nil {
		return
	}
	g.syncViewport()
	p = p.WithClip(g.Rect)
	p.Fill(g.Rect, ' ', g.Styles.Cell)

	gw := g.gutterWidth()
	cw := g.colWidth()
	area := g.cellArea()

	// Header row and gutter.
	p.Fill(core.Rect{X: g.Rect.X, Y: g.Rect.Y, W: g.Rect.W, H: 1}, ' ', g.Styles.Header)
	for col := g.cols.Offset; col <= g.cols.Last(); col++ {
		x, _ := g.cellOrigin(sheet.At(g.rows.Offset, col))
		p.DrawText(x, g.Rect.Y, centerText(sheet.ColumnName(col), cw), g.Styles.Header)
	}
	for row := g.rows.Offset; row <= g.rows.Last(); row++ {
		_, y := g.cellOrigin(sheet.At(row, g.cols.Offset))
		label := runewidth.FillLeft(strconv.Itoa(row+1), gw-1) + " "
		p.DrawText(g.Rect.X, y, label, g.Styles.Header)
	}

	store := g.ctrl.Store()
	format := g.ctrl.Format()
	for row := g.rows.Offset; row <= g.rows.Last(); row++ {
		for col := g.cols.Offset; col <= g.cols.Last(); col++ {
			c := sheet.At(row, col)
			x, y := g.cellOrigin(c)
			style := g.cellStyle(c)
			if g.editing && c == g.editor.coord {
				p.DrawText(x, y, g.editor.view(cw-1)+" ", g.Styles.Editor)
				continue
			}
			value := store.Value(c)
			text, numeric := displayText(format, value)
			p.Fill(core.Rect{X: x, Y: y, W: cw, H: 1}, ' ', style)
			p.DrawText(x, y, fitText(text, cw-1, numeric), style)
			if g.ctrl.IsFillHandle(c) {
				_, bg, _ := style.Decompose()
				p.SetCell(x+cw-1, y, FillHandleGlyph, g.Styles.Handle.Background(bg))
			}
		}
	}

	scroll.DrawVertical(p, area, area.X+area.W-1, g.rows, scroll.DefaultIndicatorConfig(g.Styles.Indicator))
	scroll.DrawHorizontal(p, core.Rect{X: area.X, Y: g.Rect.Y, W: area.W, H: 1}, g.Rect.Y, g.cols,
		scroll.DefaultIndicatorConfig(g.Styles.Indicator))
}

func (g *GridView) cellStyle(c sheet.CellCoord) tcell.Style {
	style := g.Styles.Cell
	if token := g.ctrl.Style(c); token != "" {
		if s, ok := g.Styles.Tokens[token]; ok {
			style = s
		}
	}
	switch {
	case g.ctrl.IsFillTarget(c):
		_, bg, _ := g.Styles.FillTarget.Decompose()
		style = style.Background(bg)
	case g.ctrl.IsSelected(c):
		_, bg, _ := g.Styles.Selected.Decompose()
		style = style.Background(bg)
	}
	return style
}

// displayText groups numbers for display; numeric reports right alignment.
func displayText(f sheet.NumberFormat, value string) (string, bool) {
	formatted := f.Format(value)
	if formatted != value {
		return formatted, true
	}
	_, ok := f.Parse(value)
	return value, ok
}

// fitText truncates or pads s to exactly width display columns.
func fitText(s string, width int, right bool) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

func centerText(s string, width int) string {
	pad := max(width-runewidth.StringWidth(s), 0)
	return runewidth.FillRight(runewidth.FillLeft(s, runewidth.StringWidth(s)+pad/2), width)
}
