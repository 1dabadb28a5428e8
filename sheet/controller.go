// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sheet/controller.go
// Summary: Grid controller: owns the value store, routes pointer and key
// events to selection, fill and clipboard, and commits batches.

package sheet

import (
	"context"
	"log"
	"sync"
)

// Signal is a process-wide pointer event the controller subscribes to.
type Signal int

const (
	// SignalPointerReleased fires when the pointer is released anywhere.
	SignalPointerReleased Signal = iota
	// SignalPointerPressedOutside fires when the pointer is pressed outside
	// the grid's region.
	SignalPointerPressedOutside
)

func (s Signal) String() string {
	switch s {
	case SignalPointerReleased:
		return "pointer-released"
	case SignalPointerPressedOutside:
		return "pointer-pressed-outside"
	default:
		return "unknown"
	}
}

// Host delivers global pointer signals. Subscribe returns the function that
// cancels the subscription.
type Host interface {
	Subscribe(fn func(Signal)) (unsubscribe func())
}

// KeyCode classifies a key press for the keyboard contract.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyDelete
	KeyBackspace
)

// KeyEvent is a terminal-agnostic key press.
type KeyEvent struct {
	Code KeyCode
	Rune rune
	Ctrl bool
	Meta bool
}

// Options configures a Controller. Zero values are usable: no clipboard,
// DefaultLocale grouping, numeric paste and the standard logger.
type Options struct {
	Clipboard Clipboard
	Format    *NumberFormat
	PasteMode PasteMode
	// OnChange receives the new snapshot once per committed batch.
	OnChange func(Store)
	// StyleFunc maps a cell to a host-defined style token. The controller
	// never interprets the token.
	StyleFunc func(CellCoord) string
	Logger    *log.Logger
}

// Controller is the composition root of the grid. All methods are safe for
// concurrent use; clipboard reads run outside the lock.
type Controller struct {
	mu        sync.Mutex
	store     Store
	selection *SelectionTracker
	fill      *FillEngine
	clipboard *ClipboardTransfer
	format    NumberFormat
	onChange  func(Store)
	styleFunc func(CellCoord) string
	logger    *log.Logger

	unsubscribe func()
	inflight    sync.WaitGroup
}

// NewController wraps a store.
func NewController(store Store, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	var format NumberFormat
	if opts.Format != nil {
		format = *opts.Format
	} else {
		format = MustNumberFormat(DefaultLocale)
	}
	return &Controller{
		store:     store,
		selection: NewSelectionTracker(),
		fill:      NewFillEngine(),
		clipboard: NewClipboardTransfer(opts.Clipboard, format, opts.PasteMode, logger),
		format:    format,
		onChange:  opts.OnChange,
		styleFunc: opts.StyleFunc,
		logger:    logger,
	}
}

// Format returns the number format used for display and transfer.
func (c *Controller) Format() NumberFormat {
	return c.format
}

// --- Value store ---

// Store returns the current snapshot.
func (c *Controller) Store() Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store
}

// SetStore replaces the snapshot on behalf of the store owner. It does not
// notify OnChange. Selection and fill state are kept; consumers ignore
// coordinates the new store does not cover.
func (c *Controller) SetStore(s Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = s
}

// Value returns the cell text, "" out of bounds.
func (c *Controller) Value(coord CellCoord) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Value(coord)
}

// ApplyBatch commits updates as one change and returns the new snapshot.
func (c *Controller) ApplyBatch(updates []Update) Store {
	c.mu.Lock()
	next, changed := c.applyLocked(updates)
	c.mu.Unlock()
	if changed {
		c.notify(next)
	}
	return next
}

// SetValue edits one cell.
func (c *Controller) SetValue(coord CellCoord, value string) {
	c.ApplyBatch([]Update{{Coord: coord, Value: value}})
}

func (c *Controller) applyLocked(updates []Update) (Store, bool) {
	if len(updates) == 0 {
		return c.store, false
	}
	next, changed := c.store.Apply(updates)
	c.store = next
	return next, changed
}

func (c *Controller) notify(s Store) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

// --- Selection ---

// Selection returns the raw range (anchor first).
func (c *Controller) Selection() SelectionRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Range()
}

// SetSelection replaces the selected range.
func (c *Controller) SetSelection(r SelectionRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Set(r)
}

// MoveSelection is keyboard navigation; see SelectionTracker.Move.
func (c *Controller) MoveSelection(dRow, dCol int, extend bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Move(dRow, dCol, extend, c.store.Rows(), c.store.Cols())
}

// ClearSelection drops the selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Clear()
}

// IsSelected reports whether the cell is in the selected range.
func (c *Controller) IsSelected(coord CellCoord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Contains(coord)
}

// IsSelecting reports whether a selection drag is in progress.
func (c *Controller) IsSelecting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.IsDragging()
}

// --- Fill ---

// IsFilling reports whether a fill drag is in progress.
func (c *Controller) IsFilling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fill.Active()
}

// IsFillTarget reports whether the cell will be written by the active fill.
func (c *Controller) IsFillTarget(coord CellCoord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fill.IsTarget(coord)
}

// FillTargets returns the cells the active fill would write.
func (c *Controller) FillTargets() []CellCoord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fill.Targets()
}

// IsFillHandle reports whether the fill handle sits on coord: the
// bottom-right cell of the selection, hidden while a fill drag runs.
func (c *Controller) IsFillHandle(coord CellCoord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fill.Active() {
		return false
	}
	rect, ok := c.selection.Range().Rect()
	return ok && rect.BottomRight() == coord
}

// --- Pointer routing ---

// PointerDown starts a selection drag at coord.
func (c *Controller) PointerDown(coord CellCoord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Begin(coord)
}

// FillHandleDown starts a fill drag from the handle on coord.
func (c *Controller) FillHandleDown(coord CellCoord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fill.Begin(coord)
}

// PointerEnter routes a cursor move to exactly one drag: the fill drag
// when active, otherwise the selection drag.
func (c *Controller) PointerEnter(coord CellCoord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.fill.Active():
		c.fill.Update(coord, c.selection.Range())
	case c.selection.IsDragging():
		c.selection.Extend(coord)
	}
}

// PointerUp ends any drag. A fill drag commits its batch.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	c.selection.End()
	updates := c.fill.Commit(c.selection.Range(), c.store.Value)
	next, changed := c.applyLocked(updates)
	c.mu.Unlock()
	if changed {
		c.notify(next)
	}
}

// PointerDownOutside clears the selection.
func (c *Controller) PointerDownOutside() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Clear()
}

// Mount subscribes to the host's global pointer signals. Mounting again
// replaces the previous subscription.
func (c *Controller) Mount(host Host) {
	if host == nil {
		return
	}
	c.Unmount()
	unsubscribe := host.Subscribe(c.handleSignal)
	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
}

// Unmount cancels the host subscription.
func (c *Controller) Unmount() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Controller) handleSignal(s Signal) {
	switch s {
	case SignalPointerReleased:
		c.PointerUp()
	case SignalPointerPressedOutside:
		c.PointerDownOutside()
	}
}

// --- Clipboard ---

// Copy writes the selected block to the clipboard and returns the text.
// Without a selection, or when the clipboard fails, it returns "".
func (c *Controller) Copy(ctx context.Context) string {
	c.mu.Lock()
	sel := c.selection.Range()
	store := c.store
	c.mu.Unlock()
	return c.clipboard.Copy(ctx, sel, store.Value)
}

// Paste reads the clipboard and writes the block at the selection anchor
// captured before the read. It returns the number of cells written.
func (c *Controller) Paste(ctx context.Context) int {
	anchor, ok := c.anchor()
	if !ok {
		return 0
	}
	text, ok := c.clipboard.Read(ctx)
	if !ok {
		return 0
	}
	return c.pasteAt(anchor, text)
}

// PasteAsync is Paste on its own goroutine, for hosts whose clipboard read
// is answered by their own event loop. The anchor is captured before
// returning. Wait blocks until outstanding pastes finish.
func (c *Controller) PasteAsync(ctx context.Context) {
	anchor, ok := c.anchor()
	if !ok {
		return
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		text, ok := c.clipboard.Read(ctx)
		if !ok {
			return
		}
		c.pasteAt(anchor, text)
	}()
}

// PasteText writes already-delivered text (a terminal bracketed paste) at
// the selection anchor.
func (c *Controller) PasteText(text string) int {
	anchor, ok := c.anchor()
	if !ok {
		return 0
	}
	return c.pasteAt(anchor, text)
}

// Wait blocks until every PasteAsync has completed.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) anchor() (CellCoord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel := c.selection.Range()
	if sel.Start == nil {
		return CellCoord{}, false
	}
	return *sel.Start, true
}

func (c *Controller) pasteAt(anchor CellCoord, text string) int {
	block := c.clipboard.Decode(text)
	if len(block) == 0 {
		return 0
	}
	c.mu.Lock()
	updates := PasteUpdates(anchor, block, c.store.Rows(), c.store.Cols())
	next, changed := c.applyLocked(updates)
	c.mu.Unlock()
	if changed {
		c.notify(next)
	}
	return len(updates)
}

// DeleteSelection blanks the selected cells in one batch and returns the
// number of cells written.
func (c *Controller) DeleteSelection() int {
	c.mu.Lock()
	updates := DeleteUpdates(c.selection.Range())
	next, changed := c.applyLocked(updates)
	c.mu.Unlock()
	if changed {
		c.notify(next)
	}
	return len(updates)
}

// HandleKey applies the keyboard contract: Ctrl/Cmd+C copies, Ctrl/Cmd+V
// pastes asynchronously, Delete and Backspace blank the selection. It
// reports whether the key was consumed.
func (c *Controller) HandleKey(ctx context.Context, ev KeyEvent) bool {
	switch ev.Code {
	case KeyDelete, KeyBackspace:
		c.DeleteSelection()
		return true
	case KeyRune:
		if !ev.Ctrl && !ev.Meta {
			return false
		}
		switch ev.Rune {
		case 'c', 'C':
			c.Copy(ctx)
			return true
		case 'v', 'V':
			c.PasteAsync(ctx)
			return true
		}
	}
	return false
}

// --- Presentation helpers ---

// Style returns the host style token for a cell, "" without a StyleFunc.
func (c *Controller) Style(coord CellCoord) string {
	if c.styleFunc == nil {
		return ""
	}
	return c.styleFunc(coord)
}

// Summary describes the selected cells for a status line.
type Summary struct {
	Range   SelectionRange
	Cells   int
	Numbers int
	Sum     float64
}

// Summary counts the selected cells and sums the numeric ones.
func (c *Controller) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel := c.selection.Range()
	s := Summary{Range: sel.Normalize()}
	rect, ok := sel.Rect()
	if !ok {
		return s
	}
	for _, coord := range rect.Cells() {
		if !c.store.InBounds(coord) {
			continue
		}
		s.Cells++
		if seq, ok := DetectSequence([]string{c.store.Value(coord)}); ok {
			s.Numbers++
			s.Sum += seq.Numbers[0]
		}
	}
	return s
}
