// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/gridsheet/tsvio.go
// Summary: Reads initial grid data from TSV and writes the grid back out.

package gridsheet

import (
	"fmt"
	"io"

	"github.com/framegrace/texelsheet/sheet"
)

// ReadData parses TSV input. Grouped numbers in f's locale are stored
// plain; everything else is kept verbatim.
func ReadData(r io.Reader, f sheet.NumberFormat) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tsv: %w", err)
	}
	return sheet.Deserialize(string(raw), f, sheet.PasteText), nil
}

// WriteData writes the store as TSV with plain, ungrouped numbers.
// Trailing empty rows are omitted.
func WriteData(w io.Writer, s sheet.Store) error {
	data := s.Data()
	for len(data) > 0 && isBlankRow(data[len(data)-1]) {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, sheet.Serialize(data, sheet.NumberFormat{})+"\n"); err != nil {
		return fmt.Errorf("write tsv: %w", err)
	}
	return nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
