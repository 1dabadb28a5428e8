// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sheet/tsv.go
// Summary: Tab-separated transport format for clipboard blocks.

package sheet

import (
	"regexp"
	"strings"
)

var (
	lineBreak  = regexp.MustCompile(`\r?\n|\r`)
	cellBreaks = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")
)

// Serialize joins rows with newlines and cells with tabs. Numeric cells are
// written with locale digit grouping; tabs and line breaks inside a cell are
// flattened to spaces so the block stays tabular.
func Serialize(block [][]string, f NumberFormat) string {
	var b strings.Builder
	for i, row := range block {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(cellBreaks.Replace(f.Format(cell)))
		}
	}
	return b.String()
}

// Deserialize splits clipboard text into rows and cells. Blank lines are
// dropped; cells are trimmed and ungrouped. In PasteNumeric mode a cell that
// does not parse as a number becomes "0"; in PasteText mode it is kept.
// Rows may come back ragged when the source was.
func Deserialize(text string, f NumberFormat, mode PasteMode) [][]string {
	var block [][]string
	for _, line := range lineBreak.Split(text, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		row := make([]string, len(fields))
		for i, field := range fields {
			row[i] = pasteValue(field, f, mode)
		}
		block = append(block, row)
	}
	return block
}

func pasteValue(field string, f NumberFormat, mode PasteMode) string {
	if plain, ok := f.Parse(field); ok {
		return plain
	}
	if mode == PasteText {
		return strings.TrimSpace(field)
	}
	return "0"
}
