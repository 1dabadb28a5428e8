// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/app.go
// Summary: App contract and cell type shared by the UI toolkit and runners.

package texel

import "github.com/gdamore/tcell/v2"

// Cell is one character cell of an app's framebuffer. Ch == 0 marks the
// trailing half of a wide rune; runners skip it.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// App is anything a runner can host on a terminal screen.
type App interface {
	Run() error
	Stop()
	Resize(cols, rows int)
	Render() [][]Cell
	GetTitle() string
	HandleKey(ev *tcell.EventKey)
	SetRefreshNotifier(refreshChan chan<- bool)
}

// MouseHandler apps receive mouse events.
type MouseHandler interface {
	HandleMouse(ev *tcell.EventMouse)
}

// PasteHandler apps receive bracketed paste payloads in one piece.
type PasteHandler interface {
	HandlePaste(data []byte)
}

// ClipboardSink is the terminal side of the system clipboard. tcell.Screen
// satisfies it: GetClipboard asks the terminal, which answers later with an
// EventClipboard.
type ClipboardSink interface {
	SetClipboard(data []byte)
	GetClipboard()
}

// ClipboardHandler apps take part in the terminal clipboard: the runner
// hands them a sink and forwards clipboard replies.
type ClipboardHandler interface {
	SetClipboardSink(sink ClipboardSink)
	HandleClipboard(data []byte)
}
