// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sheet/store.go
// Summary: Immutable rectangular value store with copy-on-write batches.

package sheet

// Update is one cell write inside a batch.
type Update struct {
	Coord CellCoord
	Value string
}

// Store is a rectangular rows x cols snapshot of cell text. A Store is never
// mutated after construction; Apply returns a new snapshot that shares the
// rows it did not touch.
type Store struct {
	rows, cols int
	cells      [][]string
}

// NewStore returns a rows x cols store of empty cells.
func NewStore(rows, cols int) Store {
	rows, cols = max(rows, 0), max(cols, 0)
	cells := make([][]string, rows)
	for r := range cells {
		cells[r] = make([]string, cols)
	}
	return Store{rows: rows, cols: cols, cells: cells}
}

// StoreFrom copies data into a store. Ragged rows are padded with "" up to
// the widest row.
func StoreFrom(data [][]string) Store {
	cols := 0
	for _, row := range data {
		cols = max(cols, len(row))
	}
	s := NewStore(len(data), cols)
	for r, row := range data {
		copy(s.cells[r], row)
	}
	return s
}

func (s Store) Rows() int { return s.rows }
func (s Store) Cols() int { return s.cols }

// InBounds reports whether c addresses a cell of the store.
func (s Store) InBounds(c CellCoord) bool {
	return c.Row >= 0 && c.Row < s.rows && c.Col >= 0 && c.Col < s.cols
}

// Value returns the cell text, or "" for any out-of-range coordinate.
func (s Store) Value(c CellCoord) string {
	if !s.InBounds(c) {
		return ""
	}
	return s.cells[c.Row][c.Col]
}

// Apply writes a batch and returns the new snapshot. Out-of-range updates
// are dropped. The receiver is left untouched. changed is false when the
// batch wrote nothing.
func (s Store) Apply(updates []Update) (next Store, changed bool) {
	var cells [][]string
	copied := map[int]bool{}
	for _, u := range updates {
		if !s.InBounds(u.Coord) {
			continue
		}
		if cells == nil {
			cells = make([][]string, len(s.cells))
			copy(cells, s.cells)
		}
		if !copied[u.Coord.Row] {
			cells[u.Coord.Row] = append([]string(nil), s.cells[u.Coord.Row]...)
			copied[u.Coord.Row] = true
		}
		cells[u.Coord.Row][u.Coord.Col] = u.Value
	}
	if cells == nil {
		return s, false
	}
	return Store{rows: s.rows, cols: s.cols, cells: cells}, true
}

// Data returns a deep copy of the cells for handing to a store owner.
func (s Store) Data() [][]string {
	out := make([][]string, len(s.cells))
	for r, row := range s.cells {
		out[r] = append([]string(nil), row...)
	}
	return out
}

// Equal compares two stores cell by cell.
func (s Store) Equal(other Store) bool {
	if s.rows != other.rows || s.cols != other.cols {
		return false
	}
	for r := range s.cells {
		for c := range s.cells[r] {
			if s.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}
