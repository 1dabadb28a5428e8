// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package gridsheet

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelsheet/config"
	"github.com/framegrace/texelsheet/sheet"
)

func newTestApp(t *testing.T, data [][]string) *App {
	t.Helper()
	app, err := New(Options{
		Config: config.Config{
			"gridsheet": map[string]interface{}{
				"rows":      float64(4),
				"cols":      float64(3),
				"col_width": float64(8),
			},
		},
		Data: data,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	app.Resize(40, 8)
	t.Cleanup(app.Stop)
	return app
}

func click(app *App, x, y int) {
	app.HandleMouse(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	app.HandleMouse(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

func TestNewGrowsToFitData(t *testing.T) {
	data := [][]string{{"1", "2", "3", "4", "5"}}
	app := newTestApp(t, data)
	store := app.Controller().Store()
	if store.Rows() != 4 || store.Cols() != 5 {
		t.Fatalf("expected 4x5, got %dx%d", store.Rows(), store.Cols())
	}
	if got := store.Value(sheet.At(0, 4)); got != "5" {
		t.Errorf("E1: got %q", got)
	}
	if app.GetTitle() != "GridSheet" {
		t.Errorf("title: got %q", app.GetTitle())
	}
}

func TestNewRejectsBadLocaleOverride(t *testing.T) {
	if _, err := New(Options{Config: config.Config{}, Locale: "%%"}); err == nil {
		t.Fatal("expected an error for an invalid locale")
	}
}

func TestLayoutReservesStatusLine(t *testing.T) {
	app := newTestApp(t, nil)
	if _, h := app.Grid().Size(); h != 7 {
		t.Errorf("grid height: got %d want 7", h)
	}
	click(app, 3, 1)

	buf := app.Render()
	// The status line shows the active cell on the last row.
	if got := buf[7][1].Ch; got != 'A' {
		t.Errorf("status line: got %q", string(got))
	}
}

func TestMouseDragAndFillThroughApp(t *testing.T) {
	var changes int
	app, err := New(Options{
		Config: config.Config{},
		Rows:   6,
		Cols:   2,
		Data:   [][]string{{"10"}, {"8"}},
		OnChange: func(sheet.Store) {
			changes++
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	app.Resize(40, 8)
	defer app.Stop()

	// Default column width is 10; the gutter is three columns.
	app.HandleMouse(tcell.NewEventMouse(3, 1, tcell.Button1, tcell.ModNone))
	app.HandleMouse(tcell.NewEventMouse(3, 2, tcell.Button1, tcell.ModNone))
	app.HandleMouse(tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone))

	app.HandleMouse(tcell.NewEventMouse(12, 2, tcell.Button1, tcell.ModNone))
	app.HandleMouse(tcell.NewEventMouse(4, 4, tcell.Button1, tcell.ModNone))
	app.HandleMouse(tcell.NewEventMouse(4, 4, tcell.ButtonNone, tcell.ModNone))

	ctrl := app.Controller()
	if got := ctrl.Value(sheet.At(2, 0)); got != "6" {
		t.Errorf("A3: got %q", got)
	}
	if got := ctrl.Value(sheet.At(3, 0)); got != "4" {
		t.Errorf("A4: got %q", got)
	}
	if changes != 1 {
		t.Errorf("changes: got %d", changes)
	}
}

func TestHandlePasteAtSelection(t *testing.T) {
	app := newTestApp(t, nil)
	click(app, 11, 2)

	app.HandlePaste([]byte("1,000\t2\r\n3\t4\r\n"))

	ctrl := app.Controller()
	want := map[sheet.CellCoord]string{
		sheet.At(1, 1): "1000",
		sheet.At(1, 2): "2",
		sheet.At(2, 1): "3",
		sheet.At(2, 2): "4",
	}
	for c, v := range want {
		if got := ctrl.Value(c); got != v {
			t.Errorf("%s: got %q want %q", c.A1(), got, v)
		}
	}
}

func TestTerminalClipboardCopyAndPaste(t *testing.T) {
	app := newTestApp(t, [][]string{{"1234", "x"}})
	sink := &fakeSink{deliver: app.HandleClipboard}
	app.SetClipboardSink(sink)

	app.HandleMouse(tcell.NewEventMouse(3, 1, tcell.Button1, tcell.ModNone))
	app.HandleMouse(tcell.NewEventMouse(11, 1, tcell.Button1, tcell.ModNone))
	app.HandleMouse(tcell.NewEventMouse(11, 1, tcell.ButtonNone, tcell.ModNone))
	app.HandleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))

	sink.mu.Lock()
	written := append([]string(nil), sink.written...)
	sink.mu.Unlock()
	if len(written) != 1 || written[0] != "1,234\tx" {
		t.Fatalf("terminal clipboard: %v", written)
	}

	sink.mu.Lock()
	sink.answer = []byte("7\t8")
	sink.mu.Unlock()
	click(app, 3, 3)
	app.HandleKey(tcell.NewEventKey(tcell.KeyCtrlV, 0, tcell.ModCtrl))

	deadline := time.After(2 * time.Second)
	for app.Controller().Value(sheet.At(2, 1)) != "8" {
		select {
		case <-deadline:
			t.Fatalf("paste did not arrive, A3=%q", app.Controller().Value(sheet.At(2, 0)))
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got := app.Controller().Value(sheet.At(2, 0)); got != "7" {
		t.Errorf("A3: got %q", got)
	}
}

func TestNegativeNumbersUseToken(t *testing.T) {
	app := newTestApp(t, [][]string{{"-5", "-x", "3"}})
	ctrl := app.Controller()
	if got := ctrl.Style(sheet.At(0, 0)); got != "negative" {
		t.Errorf("A1: got %q", got)
	}
	if got := ctrl.Style(sheet.At(0, 1)); got != "" {
		t.Errorf("B1: got %q", got)
	}
	if got := ctrl.Style(sheet.At(0, 2)); got != "" {
		t.Errorf("C1: got %q", got)
	}
}

func TestBorderFramesGrid(t *testing.T) {
	app, err := New(Options{
		Title: "budget",
		Config: config.Config{
			"gridsheet": map[string]interface{}{
				"rows":        float64(4),
				"cols":        float64(3),
				"show_border": true,
				"show_status": false,
			},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	app.Resize(40, 8)
	defer app.Stop()

	if x, y := app.Grid().Position(); x != 1 || y != 1 {
		t.Errorf("grid should sit inside the frame, got (%d,%d)", x, y)
	}
	buf := app.Render()
	if got := buf[0][0].Ch; got != '┌' {
		t.Errorf("frame corner: got %q", string(got))
	}
	if got := buf[0][3].Ch; got != 'b' {
		t.Errorf("frame title: got %q", string(got))
	}

	// Clicks reach the grid through the frame.
	click(app, 4, 2)
	if got := app.Controller().Selection().String(); got != "A1:A1" {
		t.Errorf("selection: got %s", got)
	}
}
