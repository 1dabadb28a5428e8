// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/widgets/gridview_host.go
// Summary: Bridges dispatcher pointer events to the grid controller's
// global pointer signals.

package widgets

import (
	"github.com/framegrace/texelsheet/sheet"
	"github.com/framegrace/texelsheet/texel"
)

// pointerHost turns dispatcher events into sheet signals. A press counts
// as outside when it misses the grid widget entirely.
type pointerHost struct {
	d    *texel.EventDispatcher
	grid *GridView
}

func (h pointerHost) Subscribe(fn func(sheet.Signal)) func() {
	return h.d.SubscribeFunc(func(e texel.Event) {
		switch e.Type {
		case texel.EventPointerReleased:
			h.grid.pressed = false
			fn(sheet.SignalPointerReleased)
			h.grid.Refresh()
		case texel.EventPointerPressed:
			p, ok := e.Payload.(texel.PointerPayload)
			if ok && h.grid.HitTest(p.X, p.Y) {
				return
			}
			h.grid.commitEdit()
			fn(sheet.SignalPointerPressedOutside)
			h.grid.Refresh()
		}
	})
}

// Mount subscribes the controller to the dispatcher's pointer events.
// Unmount through the controller.
func (g *GridView) Mount(d *texel.EventDispatcher) {
	g.ctrl.Mount(pointerHost{d: d, grid: g})
}
