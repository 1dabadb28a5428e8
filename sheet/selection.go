// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sheet/selection.go
// Summary: Range selection state machine driven by pointer and keyboard.

package sheet

// SelectionState is the drag state of the selection tracker.
type SelectionState int

const (
	// SelectionIdle means no drag is in progress. A range may still exist.
	SelectionIdle SelectionState = iota
	// SelectionDragging means the pointer is held and extends End.
	SelectionDragging
)

func (s SelectionState) String() string {
	if s == SelectionDragging {
		return "dragging"
	}
	return "idle"
}

// SelectionTracker owns the selected range and the drag flag.
type SelectionTracker struct {
	state SelectionState
	rng   SelectionRange
}

// NewSelectionTracker returns an idle tracker with no range.
func NewSelectionTracker() *SelectionTracker {
	return &SelectionTracker{}
}

// Begin anchors a new range at c and starts dragging.
func (s *SelectionTracker) Begin(c CellCoord) {
	s.rng = RangeOf(c, c)
	s.state = SelectionDragging
}

// Extend moves End to c while dragging.
func (s *SelectionTracker) Extend(c CellCoord) {
	if s.state != SelectionDragging {
		return
	}
	end := c
	s.rng.End = &end
}

// End stops dragging. The range is kept so it outlives the pointer release.
func (s *SelectionTracker) End() {
	s.state = SelectionIdle
}

// Clear drops the range and stops dragging.
func (s *SelectionTracker) Clear() {
	s.rng = SelectionRange{}
	s.state = SelectionIdle
}

// Set replaces the range without touching the drag state. A range with a
// single nil endpoint is rejected as a clear.
func (s *SelectionTracker) Set(r SelectionRange) {
	if r.Start == nil || r.End == nil {
		s.rng = SelectionRange{}
		return
	}
	s.rng = RangeOf(*r.Start, *r.End)
}

// Move is keyboard navigation. Without extend the range collapses onto the
// moved anchor; with extend only End moves. Results are clamped to a
// rows x cols grid. With no range the move starts from the top-left cell.
func (s *SelectionTracker) Move(dRow, dCol int, extend bool, rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if s.rng.Start == nil {
		origin := CellCoord{}
		s.rng = RangeOf(origin, origin)
		return
	}
	from := *s.rng.Start
	if extend && s.rng.End != nil {
		from = *s.rng.End
	}
	to := CellCoord{
		Row: clampInt(from.Row+dRow, 0, rows-1),
		Col: clampInt(from.Col+dCol, 0, cols-1),
	}
	if extend {
		s.rng.End = &to
		return
	}
	s.rng = RangeOf(to, to)
}

// Range returns a copy of the raw, unnormalized range.
func (s *SelectionTracker) Range() SelectionRange {
	if s.rng.Start == nil {
		return SelectionRange{}
	}
	r := SelectionRange{Start: ptrTo(*s.rng.Start)}
	if s.rng.End != nil {
		r.End = ptrTo(*s.rng.End)
	}
	return r
}

// Normalized returns the range reordered top-left to bottom-right. It is
// recomputed on every call.
func (s *SelectionTracker) Normalized() SelectionRange {
	return s.Range().Normalize()
}

// Contains reports whether c is selected.
func (s *SelectionTracker) Contains(c CellCoord) bool {
	return IsCellInRange(c, s.rng)
}

// State returns the drag state.
func (s *SelectionTracker) State() SelectionState {
	return s.state
}

// IsDragging reports whether a selection drag is in progress.
func (s *SelectionTracker) IsDragging() bool {
	return s.state == SelectionDragging
}

func ptrTo(c CellCoord) *CellCoord {
	return &c
}

// clampInt restricts v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
