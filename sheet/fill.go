// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sheet/fill.go
// Summary: Fill handle drag state machine and value extrapolation.

package sheet

// FillState is the drag state of the fill engine.
type FillState int

const (
	// FillIdle means no fill drag is in progress.
	FillIdle FillState = iota
	// FillDragging means the fill handle is held and targets track the cursor.
	FillDragging
)

func (s FillState) String() string {
	if s == FillDragging {
		return "fill-dragging"
	}
	return "idle"
}

// FillEngine tracks a fill drag. Targets are recomputed from the current
// selection on every cursor move and dropped when the drag ends.
type FillEngine struct {
	state   FillState
	source  CellCoord
	targets []CellCoord
	lookup  map[CellCoord]struct{}
}

// NewFillEngine returns an idle engine.
func NewFillEngine() *FillEngine {
	return &FillEngine{}
}

// Begin starts a drag from the fill handle of source.
func (f *FillEngine) Begin(source CellCoord) {
	f.state = FillDragging
	f.source = source
	f.setTargets(nil)
}

// Update recomputes the targets for the cursor position. It is a no-op
// unless a drag is active. Without a selection anchor there are no targets.
func (f *FillEngine) Update(cursor CellCoord, sel SelectionRange) {
	if f.state != FillDragging {
		return
	}
	anchor, ok := sel.Rect()
	if !ok {
		f.setTargets(nil)
		return
	}
	f.setTargets(FillTargets(anchor, cursor))
}

// Commit ends the drag and returns the batch to write. The engine is idle
// with no targets afterwards, whatever the outcome.
func (f *FillEngine) Commit(sel SelectionRange, get ValueFunc) []Update {
	defer f.Cancel()
	if f.state != FillDragging || len(f.targets) == 0 {
		return nil
	}
	anchor, ok := sel.Rect()
	if !ok {
		return nil
	}
	return FillValues(anchor, f.targets, get)
}

// Cancel drops the drag and its targets.
func (f *FillEngine) Cancel() {
	f.state = FillIdle
	f.setTargets(nil)
}

// Active reports whether a fill drag is in progress.
func (f *FillEngine) Active() bool {
	return f.state == FillDragging
}

// State returns the drag state.
func (f *FillEngine) State() FillState {
	return f.state
}

// Source returns the cell whose handle started the drag.
func (f *FillEngine) Source() (CellCoord, bool) {
	return f.source, f.state == FillDragging
}

// Targets returns a copy of the current target cells in row-major order.
func (f *FillEngine) Targets() []CellCoord {
	return append([]CellCoord(nil), f.targets...)
}

// IsTarget reports whether c will be written when the drag commits.
func (f *FillEngine) IsTarget(c CellCoord) bool {
	_, ok := f.lookup[c]
	return ok
}

func (f *FillEngine) setTargets(targets []CellCoord) {
	f.targets = targets
	if len(targets) == 0 {
		f.lookup = nil
		return
	}
	f.lookup = make(map[CellCoord]struct{}, len(targets))
	for _, c := range targets {
		f.lookup[c] = struct{}{}
	}
}

// FillTargets returns the cells of the rectangle spanning anchor and cursor
// that are not part of anchor, row-major. Diagonal drags give an L-shaped
// or rectangular band.
func FillTargets(anchor Rect, cursor CellCoord) []CellCoord {
	extended := anchor.Union(cursor)
	var targets []CellCoord
	for _, c := range extended.Cells() {
		if !anchor.Contains(c) {
			targets = append(targets, c)
		}
	}
	return targets
}

// FillValues computes one update per target. A target that extends a
// column (or row) of anchor continues an arithmetic sequence when every
// value on that line is a number with a constant step; otherwise, and for
// diagonal targets, the anchor block is tiled across the fill area.
func FillValues(anchor Rect, targets []CellCoord, get ValueFunc) []Update {
	columns := map[int]lineSequence{}
	rows := map[int]lineSequence{}

	updates := make([]Update, 0, len(targets))
	for _, t := range targets {
		inRows := t.Row >= anchor.Top && t.Row <= anchor.Bottom
		inCols := t.Col >= anchor.Left && t.Col <= anchor.Right

		var (
			value string
			done  bool
		)
		switch {
		case inCols && !inRows:
			seq := lookupLine(columns, t.Col, func() []string {
				return lineValues(get, anchor.Top, anchor.Bottom, func(i int) CellCoord { return At(i, t.Col) })
			})
			value, done = seq.extend(t.Row, anchor.Top, anchor.Bottom)
		case inRows && !inCols:
			seq := lookupLine(rows, t.Row, func() []string {
				return lineValues(get, anchor.Left, anchor.Right, func(i int) CellCoord { return At(t.Row, i) })
			})
			value, done = seq.extend(t.Col, anchor.Left, anchor.Right)
		}
		if !done {
			src := CellCoord{
				Row: wrapInto(t.Row, anchor.Top, anchor.Bottom),
				Col: wrapInto(t.Col, anchor.Left, anchor.Right),
			}
			value = get(src)
		}
		updates = append(updates, Update{Coord: t, Value: value})
	}
	return updates
}

// lineSequence caches the detection result for one row or column.
type lineSequence struct {
	seq Sequence
	ok  bool
}

func lookupLine(cache map[int]lineSequence, key int, values func() []string) lineSequence {
	if ls, ok := cache[key]; ok {
		return ls
	}
	seq, ok := DetectSequence(values())
	ls := lineSequence{seq: seq, ok: ok}
	cache[key] = ls
	return ls
}

// extend returns the sequence value at position pos given the line spans
// [lo, hi]. done is false when the line is not a sequence.
func (ls lineSequence) extend(pos, lo, hi int) (string, bool) {
	if !ls.ok {
		return "", false
	}
	if pos > hi {
		return ls.seq.After(pos - hi), true
	}
	return ls.seq.Before(lo - pos), true
}

func lineValues(get ValueFunc, lo, hi int, at func(int) CellCoord) []string {
	values := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		values = append(values, get(at(i)))
	}
	return values
}

// wrapInto maps v back into [lo, hi] so the block repeats outward in both
// directions: positions past hi count forward from lo, positions before lo
// count backward from hi.
func wrapInto(v, lo, hi int) int {
	size := hi - lo + 1
	switch {
	case v > hi:
		return lo + (v-hi-1)%size
	case v < lo:
		return hi - (lo-v-1)%size
	default:
		return v
	}
}
