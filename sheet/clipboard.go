// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sheet/clipboard.go
// Summary: Copy, paste and delete of rectangular blocks through a system
// clipboard, bounded by grid extents.

package sheet

import (
	"context"
	"errors"
	"log"
	"sync"
)

// MimeText is the only clipboard flavour the grid reads and writes.
const MimeText = "text/plain"

// ErrClipboardEmpty is returned by clipboards that hold nothing to read.
var ErrClipboardEmpty = errors.New("clipboard is empty")

// Clipboard is the system clipboard boundary. ReadText may block until the
// platform answers; implementations honour ctx.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
	ReadText(ctx context.Context) (string, error)
}

// ValueFunc reads one cell. It must return "" out of bounds.
type ValueFunc func(CellCoord) string

// MemoryClipboard keeps clipboard contents in process, keyed by MIME type.
type MemoryClipboard struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryClipboard returns an empty clipboard.
func NewMemoryClipboard() *MemoryClipboard {
	return &MemoryClipboard{data: make(map[string][]byte)}
}

// Set stores a copy of data under mime.
func (m *MemoryClipboard) Set(mime string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[mime] = append([]byte(nil), data...)
}

// Get returns a copy of the data stored under mime.
func (m *MemoryClipboard) Get(mime string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[mime]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (m *MemoryClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Set(MimeText, []byte(text))
	return nil
}

func (m *MemoryClipboard) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, ok := m.Get(MimeText)
	if !ok {
		return "", ErrClipboardEmpty
	}
	return string(data), nil
}

// ClipboardTransfer converts between selections and clipboard text. It holds
// no selection state of its own; callers pass the range they captured.
type ClipboardTransfer struct {
	clipboard Clipboard
	format    NumberFormat
	mode      PasteMode
	logger    *log.Logger
}

// NewClipboardTransfer wires a clipboard to the TSV codec. A nil logger
// logs through the standard logger.
func NewClipboardTransfer(cb Clipboard, f NumberFormat, mode PasteMode, logger *log.Logger) *ClipboardTransfer {
	if logger == nil {
		logger = log.Default()
	}
	return &ClipboardTransfer{clipboard: cb, format: f, mode: mode, logger: logger}
}

// Block reads the normalized rectangle of r row by row. It returns nil when
// the range has no anchor.
func Block(r SelectionRange, get ValueFunc) [][]string {
	n := r.Normalize()
	if n.Start == nil || n.End == nil {
		return nil
	}
	block := make([][]string, 0, n.End.Row-n.Start.Row+1)
	for row := n.Start.Row; row <= n.End.Row; row++ {
		line := make([]string, 0, n.End.Col-n.Start.Col+1)
		for col := n.Start.Col; col <= n.End.Col; col++ {
			line = append(line, get(CellCoord{Row: row, Col: col}))
		}
		block = append(block, line)
	}
	return block
}

// Encode serializes the selected block. ok is false without an anchor.
func (t *ClipboardTransfer) Encode(r SelectionRange, get ValueFunc) (string, bool) {
	block := Block(r, get)
	if len(block) == 0 {
		return "", false
	}
	return Serialize(block, t.format), true
}

// Decode parses clipboard text with the configured paste mode.
func (t *ClipboardTransfer) Decode(text string) [][]string {
	return Deserialize(text, t.format, t.mode)
}

// Copy writes the selected block to the clipboard and returns the text
// written. Failures are logged and yield "".
func (t *ClipboardTransfer) Copy(ctx context.Context, r SelectionRange, get ValueFunc) string {
	text, ok := t.Encode(r, get)
	if !ok {
		return ""
	}
	if t.clipboard == nil {
		t.logger.Printf("Sheet: copy %s skipped: no clipboard", r)
		return ""
	}
	if err := t.clipboard.WriteText(ctx, text); err != nil {
		t.logger.Printf("Sheet: clipboard copy failed: %v", err)
		return ""
	}
	return text
}

// Read fetches clipboard text. Failures are logged and reported as !ok.
func (t *ClipboardTransfer) Read(ctx context.Context) (string, bool) {
	if t.clipboard == nil {
		t.logger.Printf("Sheet: paste skipped: no clipboard")
		return "", false
	}
	text, err := t.clipboard.ReadText(ctx)
	if err != nil {
		t.logger.Printf("Sheet: clipboard paste failed: %v", err)
		return "", false
	}
	return text, true
}

// PasteUpdates places block with its top-left at anchor and keeps every
// cell that lands inside a rows x cols grid. Cells past the edges are
// dropped; a partial paste is still a paste.
func PasteUpdates(anchor CellCoord, block [][]string, rows, cols int) []Update {
	var updates []Update
	for dr, line := range block {
		row := anchor.Row + dr
		if row < 0 || row >= rows {
			continue
		}
		for dc, value := range line {
			col := anchor.Col + dc
			if col < 0 || col >= cols {
				continue
			}
			updates = append(updates, Update{Coord: CellCoord{Row: row, Col: col}, Value: value})
		}
	}
	return updates
}

// DeleteUpdates blanks every cell of the normalized selection.
func DeleteUpdates(r SelectionRange) []Update {
	rect, ok := r.Rect()
	if !ok {
		return nil
	}
	cells := rect.Cells()
	updates := make([]Update, len(cells))
	for i, c := range cells {
		updates[i] = Update{Coord: c, Value: ""}
	}
	return updates
}
