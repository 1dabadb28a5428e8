// Copyright 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/scroll/state.go
// Summary: Immutable one-dimensional scroll state shared by scrollable
// widgets. GridView keeps one State for rows and one for columns.

package scroll

// State is a viewport over Content items, Viewport of them visible from
// Offset. All methods return a new, clamped State.
type State struct {
	Offset   int
	Content  int
	Viewport int
}

// NewState returns a state scrolled to the top.
func NewState(content, viewport int) State {
	return State{Content: max(content, 0), Viewport: max(viewport, 0)}.clamp()
}

func (s State) clamp() State {
	maxOffset := max(s.Content-s.Viewport, 0)
	s.Offset = min(max(s.Offset, 0), maxOffset)
	return s
}

func (s State) WithContent(n int) State {
	s.Content = max(n, 0)
	return s.clamp()
}

func (s State) WithViewport(n int) State {
	s.Viewport = max(n, 0)
	return s.clamp()
}

func (s State) ScrollBy(delta int) State {
	s.Offset += delta
	return s.clamp()
}

func (s State) ScrollTo(offset int) State {
	s.Offset = offset
	return s.clamp()
}

func (s State) ScrollToTop() State {
	return s.ScrollTo(0)
}

func (s State) ScrollToBottom() State {
	return s.ScrollTo(s.Content)
}

// EnsureVisible scrolls the least distance that brings item i into view.
func (s State) EnsureVisible(i int) State {
	if s.Viewport <= 0 {
		return s
	}
	switch {
	case i < s.Offset:
		s.Offset = i
	case i >= s.Offset+s.Viewport:
		s.Offset = i - s.Viewport + 1
	}
	return s.clamp()
}

// IsVisible reports whether item i is inside the viewport.
func (s State) IsVisible(i int) bool {
	return i >= s.Offset && i < s.Offset+s.Viewport && i < s.Content
}

// Last returns the index of the last visible item, Offset-1 when nothing
// is visible.
func (s State) Last() int {
	return min(s.Offset+s.Viewport, s.Content) - 1
}

func (s State) CanScrollUp() bool   { return s.Offset > 0 }
func (s State) CanScrollDown() bool { return s.Offset+s.Viewport < s.Content }
