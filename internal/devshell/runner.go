package devshell

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelsheet/texel"
)

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by RunApp. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

// RunApp hosts app inside a local tcell screen until Ctrl+Q or until the
// app's Run returns. Every other key goes to the app.
func RunApp(app texel.App) error {
	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.Clear()
	screen.EnableMouse()
	defer screen.DisableMouse()
	screen.EnablePaste() // Enable bracketed paste support

	if ch, ok := app.(texel.ClipboardHandler); ok {
		ch.SetClipboardSink(screen)
	}

	width, height := screen.Size()
	app.Resize(width, height)
	refreshCh := make(chan bool, 1)
	app.SetRefreshNotifier(refreshCh)

	draw := func() {
		screen.Clear()
		buffer := app.Render()
		for y := 0; y < len(buffer); y++ {
			row := buffer[y]
			for x := 0; x < len(row); x++ {
				cell := row[x]
				if cell.Ch == 0 {
					continue
				}
				screen.SetContent(x, y, cell.Ch, nil, cell.Style)
			}
		}
		screen.Show()
	}

	draw()

	runErr := make(chan error, 1)
	go func() {
		runErr <- app.Run()
	}()
	defer app.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-refreshCh:
				screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	var pasteBuffer strings.Builder
	var inPaste bool

	for {
		select {
		case err := <-runErr:
			return err
		default:
		}

		ev := screen.PollEvent()
		switch tev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			draw()
		case *tcell.EventResize:
			w, h := tev.Size()
			app.Resize(w, h)
			screen.Sync()
			draw()
		case *tcell.EventPaste:
			if tev.Start() {
				inPaste = true
				pasteBuffer.Reset()
			} else if tev.End() {
				inPaste = false
				if ph, ok := app.(texel.PasteHandler); ok && pasteBuffer.Len() > 0 {
					ph.HandlePaste([]byte(pasteBuffer.String()))
					draw()
				}
				pasteBuffer.Reset()
			}
		case *tcell.EventClipboard:
			if ch, ok := app.(texel.ClipboardHandler); ok {
				ch.HandleClipboard(tev.Data())
				draw()
			}
		case *tcell.EventKey:
			if inPaste {
				collectPaste(&pasteBuffer, tev)
				continue
			}
			if tev.Key() == tcell.KeyCtrlQ {
				return nil
			}
			app.HandleKey(tev)
			draw()
		case *tcell.EventMouse:
			if mh, ok := app.(texel.MouseHandler); ok {
				mh.HandleMouse(tev)
				draw()
			}
		}
	}
}

// collectPaste appends the text a key event stands for inside a
// bracketed paste. Tabs and line breaks are kept so TSV survives.
func collectPaste(b *strings.Builder, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		b.WriteRune(ev.Rune())
	case tcell.KeyTab:
		b.WriteByte('\t')
	case tcell.KeyEnter, tcell.KeyLF:
		b.WriteByte('\n')
	}
}
