// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sheet/coord.go
// Summary: Cell coordinates, selection ranges and the rectangle algebra
// shared by selection, clipboard and fill.

package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

// CellCoord identifies one cell. Coordinates may transiently fall outside
// the grid; consumers clamp or ignore them.
type CellCoord struct {
	Row int
	Col int
}

// At is shorthand for CellCoord{Row: row, Col: col}.
func At(row, col int) CellCoord {
	return CellCoord{Row: row, Col: col}
}

// Key returns the "row-col" form used as a map key by hosts.
func (c CellCoord) Key() string {
	return strconv.Itoa(c.Row) + "-" + strconv.Itoa(c.Col)
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (CellCoord, error) {
	rowPart, colPart, ok := strings.Cut(key, "-")
	if !ok {
		return CellCoord{}, fmt.Errorf("invalid cell key %q", key)
	}
	row, err := strconv.Atoi(rowPart)
	if err != nil {
		return CellCoord{}, fmt.Errorf("invalid cell key %q: %w", key, err)
	}
	col, err := strconv.Atoi(colPart)
	if err != nil {
		return CellCoord{}, fmt.Errorf("invalid cell key %q: %w", key, err)
	}
	return CellCoord{Row: row, Col: col}, nil
}

// ColumnName returns the spreadsheet letter name of a zero-based column
// (0 -> A, 25 -> Z, 26 -> AA). Negative columns yield "".
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var buf []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		buf = append(buf, byte('A'+(n-1)%26))
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// A1 returns the cell in A1 notation (row numbers are one-based).
func (c CellCoord) A1() string {
	return ColumnName(c.Col) + strconv.Itoa(c.Row+1)
}

// SelectionRange is an anchor (Start) and a live cursor (End). Both are nil
// or both are set. The range is not normalized: Start may sit below or to
// the right of End.
type SelectionRange struct {
	Start *CellCoord
	End   *CellCoord
}

// RangeOf builds a range with both endpoints set.
func RangeOf(start, end CellCoord) SelectionRange {
	return SelectionRange{Start: &start, End: &end}
}

// IsEmpty reports whether the range has no anchor.
func (r SelectionRange) IsEmpty() bool {
	return r.Start == nil
}

// Normalize returns a copy whose Start is the top-left corner and whose End
// is the bottom-right corner. Ranges with a nil endpoint are returned as is.
func (r SelectionRange) Normalize() SelectionRange {
	if r.Start == nil || r.End == nil {
		return r
	}
	return RangeOf(
		CellCoord{Row: min(r.Start.Row, r.End.Row), Col: min(r.Start.Col, r.End.Col)},
		CellCoord{Row: max(r.Start.Row, r.End.Row), Col: max(r.Start.Col, r.End.Col)},
	)
}

// Rect returns the rectangle spanned by the range. ok is false when the
// range has no anchor. A missing End is treated as Start.
func (r SelectionRange) Rect() (Rect, bool) {
	if r.Start == nil {
		return Rect{}, false
	}
	end := r.Start
	if r.End != nil {
		end = r.End
	}
	return RectOf(*r.Start, *end), true
}

// Equal compares two ranges by value.
func (r SelectionRange) Equal(other SelectionRange) bool {
	return coordPtrEqual(r.Start, other.Start) && coordPtrEqual(r.End, other.End)
}

func coordPtrEqual(a, b *CellCoord) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// String is used in log lines.
func (r SelectionRange) String() string {
	if r.Start == nil {
		return "<none>"
	}
	if r.End == nil {
		return r.Start.A1()
	}
	return r.Start.A1() + ":" + r.End.A1()
}

// Rect is an inclusive, normalized cell rectangle.
type Rect struct {
	Top, Left, Bottom, Right int
}

// RectOf returns the rectangle spanned by two corners in any order.
func RectOf(a, b CellCoord) Rect {
	return Rect{
		Top:    min(a.Row, b.Row),
		Left:   min(a.Col, b.Col),
		Bottom: max(a.Row, b.Row),
		Right:  max(a.Col, b.Col),
	}
}

func (r Rect) Height() int { return r.Bottom - r.Top + 1 }
func (r Rect) Width() int  { return r.Right - r.Left + 1 }

// Contains reports whether c lies inside the rectangle.
func (r Rect) Contains(c CellCoord) bool {
	return c.Row >= r.Top && c.Row <= r.Bottom && c.Col >= r.Left && c.Col <= r.Right
}

// Union extends the rectangle to include c.
func (r Rect) Union(c CellCoord) Rect {
	return Rect{
		Top:    min(r.Top, c.Row),
		Left:   min(r.Left, c.Col),
		Bottom: max(r.Bottom, c.Row),
		Right:  max(r.Right, c.Col),
	}
}

// TopLeft and BottomRight return the corners.
func (r Rect) TopLeft() CellCoord     { return CellCoord{Row: r.Top, Col: r.Left} }
func (r Rect) BottomRight() CellCoord { return CellCoord{Row: r.Bottom, Col: r.Right} }

// Cells lists every coordinate of the rectangle in row-major order.
func (r Rect) Cells() []CellCoord {
	cells := make([]CellCoord, 0, r.Height()*r.Width())
	for row := r.Top; row <= r.Bottom; row++ {
		for col := r.Left; col <= r.Right; col++ {
			cells = append(cells, CellCoord{Row: row, Col: col})
		}
	}
	return cells
}

// CellsInRange returns every coordinate of the inclusive rectangle spanned
// by start and end, row-major, regardless of corner order.
func CellsInRange(start, end CellCoord) []CellCoord {
	return RectOf(start, end).Cells()
}

// IsCellInRange reports whether c falls inside the range. A range without an
// anchor contains nothing; a range without End is the anchor cell alone.
func IsCellInRange(c CellCoord, r SelectionRange) bool {
	rect, ok := r.Rect()
	if !ok {
		return false
	}
	return rect.Contains(c)
}
