// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/gridsheet/gridsheet.go
// Summary: Spreadsheet grid app: a GridView and status line over a
// sheet.Controller, wired to the terminal clipboard.
// Usage: Built by the devshell runner and the texelsheet command.

package gridsheet

import (
	"context"
	"log"
	"strings"

	"github.com/framegrace/texelsheet/config"
	"github.com/framegrace/texelsheet/sheet"
	"github.com/framegrace/texelsheet/texel"
	"github.com/framegrace/texelsheet/texelui/adapter"
	"github.com/framegrace/texelsheet/texelui/core"
	"github.com/framegrace/texelsheet/texelui/widgets"
)

// Options configure New. Zero values use the gridsheet app config.
type Options struct {
	Title string
	// Data seeds the grid. The grid grows to fit it.
	Data [][]string
	// Config overrides config.App(AppName).
	Config config.Config
	// Rows, Cols and Locale override the config when set.
	Rows, Cols int
	Locale     string
	// OnChange runs after every committed batch.
	OnChange func(sheet.Store)
}

// App hosts one grid.
type App struct {
	*adapter.UIApp

	settings   Settings
	ctrl       *sheet.Controller
	grid       *widgets.GridView
	frame      *widgets.Border
	status     *widgets.StatusLine
	clipboard  *TerminalClipboard
	dispatcher *texel.EventDispatcher
	cancel     context.CancelFunc
}

var (
	_ texel.App              = (*App)(nil)
	_ texel.MouseHandler     = (*App)(nil)
	_ texel.PasteHandler     = (*App)(nil)
	_ texel.ClipboardHandler = (*App)(nil)
)

// New builds the app. Config problems are logged and replaced by
// defaults; only an invalid Locale override is an error.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.App(AppName)
	}
	settings, err := LoadSettings(cfg)
	if err != nil {
		log.Printf("GridSheet: Config problems, using defaults: %v", err)
	}
	if opts.Locale != "" {
		format, err := sheet.NewNumberFormat(opts.Locale)
		if err != nil {
			return nil, err
		}
		settings.Format = format
	}
	if opts.Rows > 0 {
		settings.Rows = opts.Rows
	}
	if opts.Cols > 0 {
		settings.Cols = opts.Cols
	}
	title := opts.Title
	if title == "" {
		title = "GridSheet"
	}

	a := &App{
		settings:   settings,
		clipboard:  NewTerminalClipboard(settings.ClipboardTimeout),
		dispatcher: texel.NewEventDispatcher(),
	}
	format := settings.Format
	a.ctrl = sheet.NewController(sheet.StoreFrom(padData(opts.Data, settings.Rows, settings.Cols)), sheet.Options{
		Clipboard: a.clipboard,
		Format:    &format,
		PasteMode: settings.PasteMode,
		OnChange: func(s sheet.Store) {
			a.grid.Refresh()
			if opts.OnChange != nil {
				opts.OnChange(s)
			}
		},
		StyleFunc: a.styleToken,
	})

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	ui := core.NewUIManager()
	ui.SetBackground(settings.Styles.Cell)
	ui.SetDispatcher(a.dispatcher)

	a.grid = widgets.NewGridView(0, 0, 0, 0, a.ctrl)
	a.grid.Styles = settings.Styles
	a.grid.ColWidth = settings.ColWidth
	a.grid.SetContext(ctx)
	if settings.ShowBorder {
		a.frame = widgets.NewBorder(0, 0, 0, 0, settings.Styles.Header)
		a.frame.Title = title
		a.frame.SetChild(a.grid)
		ui.AddWidget(a.frame)
	} else {
		ui.AddWidget(a.grid)
	}

	if settings.ShowStatus {
		a.status = widgets.NewStatusLine(0, 0, 0, a.ctrl, settings.Styles.Header)
		a.grid.Notify = a.status.SetMessage
		ui.AddWidget(a.status)
	}
	ui.Focus(a.grid)
	a.grid.Mount(a.dispatcher)

	a.UIApp = adapter.NewUIApp(title, ui)
	a.UIApp.OnResize(a.layout)
	return a, nil
}

func (a *App) layout(w, h int) {
	gridH := h
	if a.status != nil && h > 1 {
		gridH = h - 1
		a.status.SetPosition(0, h-1)
		a.status.Resize(w, 1)
	}
	if a.frame != nil {
		a.frame.SetPosition(0, 0)
		a.frame.Resize(w, gridH)
		return
	}
	a.grid.SetPosition(0, 0)
	a.grid.Resize(w, gridH)
}

// styleToken marks negative numbers so they render in red.
func (a *App) styleToken(c sheet.CellCoord) string {
	v := strings.TrimSpace(a.ctrl.Value(c))
	if !strings.HasPrefix(v, "-") {
		return ""
	}
	if _, ok := a.settings.Format.Parse(v); ok {
		return "negative"
	}
	return ""
}

// padData copies data into a grid at least rows x cols in size.
func padData(data [][]string, rows, cols int) [][]string {
	rows = max(rows, len(data))
	for _, row := range data {
		cols = max(cols, len(row))
	}
	out := make([][]string, rows)
	for r := range out {
		out[r] = make([]string, cols)
		if r < len(data) {
			copy(out[r], data[r])
		}
	}
	return out
}

// Controller exposes the grid controller.
func (a *App) Controller() *sheet.Controller { return a.ctrl }

// Grid exposes the grid widget.
func (a *App) Grid() *widgets.GridView { return a.grid }

// Settings returns the resolved options.
func (a *App) Settings() Settings { return a.settings }

// Stop cancels pending clipboard reads and detaches the controller.
func (a *App) Stop() {
	a.cancel()
	a.ctrl.Unmount()
	a.ctrl.Wait()
	a.UIApp.Stop()
}

// HandlePaste applies a bracketed paste at the selection anchor.
func (a *App) HandlePaste(data []byte) {
	a.grid.Paste(string(data))
}

// SetClipboardSink connects the terminal clipboard.
func (a *App) SetClipboardSink(sink texel.ClipboardSink) {
	a.clipboard.SetSink(sink)
}

// HandleClipboard delivers a terminal clipboard answer.
func (a *App) HandleClipboard(data []byte) {
	a.clipboard.Deliver(data)
}
