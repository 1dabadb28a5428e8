// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package sheet

import (
	"bytes"
	"context"
	"log"
	"sync"
	"testing"
)

type fakeHost struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Signal)
}

func newFakeHost() *fakeHost {
	return &fakeHost{subs: make(map[int]func(Signal))}
}

func (h *fakeHost) Subscribe(fn func(Signal)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

func (h *fakeHost) emit(s Signal) {
	h.mu.Lock()
	subs := make([]func(Signal), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

func (h *fakeHost) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

type changeRecorder struct {
	mu        sync.Mutex
	snapshots []Store
}

func (r *changeRecorder) record(s Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *changeRecorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func newTestController(store Store, cb Clipboard) (*Controller, *changeRecorder) {
	rec := &changeRecorder{}
	c := NewController(store, Options{
		Clipboard: cb,
		OnChange:  rec.record,
		Logger:    log.New(&bytes.Buffer{}, "", 0),
	})
	return c, rec
}

func drag(c *Controller, from, to CellCoord) {
	c.PointerDown(from)
	c.PointerEnter(to)
	c.PointerUp()
}

func TestControllerSelectByDrag(t *testing.T) {
	c, rec := newTestController(NewStore(5, 5), nil)
	c.PointerDown(At(1, 1))
	if !c.IsSelecting() {
		t.Fatalf("expected selection drag")
	}
	c.PointerEnter(At(2, 2))
	c.PointerUp()

	sel := c.Selection()
	if *sel.Start != At(1, 1) || *sel.End != At(2, 2) {
		t.Fatalf("expected (1,1)-(2,2), got %v", sel)
	}
	for _, cell := range CellsInRange(At(1, 1), At(2, 2)) {
		if !c.IsSelected(cell) {
			t.Errorf("expected %v selected", cell)
		}
	}
	if c.IsSelected(At(3, 3)) {
		t.Errorf("expected (3,3) not selected")
	}
	if !c.IsFillHandle(At(2, 2)) || c.IsFillHandle(At(1, 1)) {
		t.Errorf("expected fill handle at bottom-right only")
	}
	if c.IsSelecting() {
		t.Errorf("expected drag to end on pointer up")
	}
	if rec.calls() != 0 {
		t.Errorf("selection must not change values")
	}
}

func TestControllerFillByDrag(t *testing.T) {
	store := StoreFrom([][]string{{"1"}, {"2"}, {"3"}, {""}, {""}, {""}})
	c, rec := newTestController(store, nil)
	drag(c, At(0, 0), At(2, 0))

	c.FillHandleDown(At(2, 0))
	if c.IsFillHandle(At(2, 0)) {
		t.Errorf("fill handle should be hidden during a fill drag")
	}
	c.PointerEnter(At(5, 0))
	if got := len(c.FillTargets()); got != 3 {
		t.Fatalf("expected 3 targets, got %d", got)
	}
	if !c.IsFillTarget(At(4, 0)) {
		t.Errorf("expected (4,0) to be a target")
	}
	sel := c.Selection()
	if *sel.End != At(2, 0) {
		t.Errorf("fill drag must not move the selection, got %v", sel)
	}

	c.PointerUp()
	if rec.calls() != 1 {
		t.Fatalf("expected one change notification, got %d", rec.calls())
	}
	for row, want := range map[int]string{3: "4", 4: "5", 5: "6"} {
		if got := c.Value(At(row, 0)); got != want {
			t.Errorf("row %d: expected %q, got %q", row, want, got)
		}
	}
	if c.IsFilling() || len(c.FillTargets()) != 0 {
		t.Errorf("expected fill to be idle after commit")
	}
}

func TestControllerFillWithoutMovementIsNoop(t *testing.T) {
	c, rec := newTestController(StoreFrom([][]string{{"1"}, {""}}), nil)
	drag(c, At(0, 0), At(0, 0))
	c.FillHandleDown(At(0, 0))
	c.PointerUp()
	if rec.calls() != 0 {
		t.Errorf("expected no change for a fill without targets")
	}
}

func TestControllerCopyPaste(t *testing.T) {
	cb := NewMemoryClipboard()
	store := StoreFrom([][]string{
		{"1", "2", "3", ""},
		{"4", "5", "6", ""},
		{"7", "8", "9", ""},
		{"", "", "", ""},
	})
	c, rec := newTestController(store, cb)
	ctx := context.Background()

	drag(c, At(0, 0), At(2, 2))
	if !c.HandleKey(ctx, KeyEvent{Code: KeyRune, Rune: 'c', Ctrl: true}) {
		t.Fatalf("expected ctrl+c to be consumed")
	}
	data, ok := cb.Get(MimeText)
	if !ok || string(data) != "1\t2\t3\n4\t5\t6\n7\t8\t9" {
		t.Fatalf("unexpected clipboard %q", data)
	}

	drag(c, At(2, 2), At(2, 2))
	if !c.HandleKey(ctx, KeyEvent{Code: KeyRune, Rune: 'v', Meta: true}) {
		t.Fatalf("expected cmd+v to be consumed")
	}
	c.Wait()

	if rec.calls() != 1 {
		t.Fatalf("expected one change notification, got %d", rec.calls())
	}
	want := map[CellCoord]string{At(2, 2): "1", At(2, 3): "2", At(3, 2): "4", At(3, 3): "5"}
	for cell, v := range want {
		if got := c.Value(cell); got != v {
			t.Errorf("%v: expected %q, got %q", cell, v, got)
		}
	}
	if got := c.Value(At(0, 0)); got != "1" {
		t.Errorf("paste touched a cell outside the block: %q", got)
	}
}

func TestControllerPasteUsesAnchorAtRequest(t *testing.T) {
	cb := NewMemoryClipboard()
	cb.Set(MimeText, []byte("9"))
	c, _ := newTestController(NewStore(3, 3), cb)
	drag(c, At(1, 1), At(1, 1))
	c.PasteAsync(context.Background())
	drag(c, At(0, 0), At(0, 0))
	c.Wait()
	if got := c.Value(At(1, 1)); got != "9" {
		t.Errorf("expected paste at (1,1), got %q", got)
	}
}

func TestControllerPasteWithoutSelection(t *testing.T) {
	cb := NewMemoryClipboard()
	cb.Set(MimeText, []byte("1\t2"))
	c, rec := newTestController(NewStore(2, 2), cb)
	if n := c.Paste(context.Background()); n != 0 {
		t.Errorf("expected nothing pasted, got %d", n)
	}
	if c.Copy(context.Background()) != "" {
		t.Errorf("expected empty copy without selection")
	}
	if rec.calls() != 0 {
		t.Errorf("expected no change")
	}
}

func TestControllerPasteText(t *testing.T) {
	c, _ := newTestController(NewStore(2, 2), nil)
	drag(c, At(0, 0), At(0, 0))
	if n := c.PasteText("1,000\tabc\n\n2"); n != 3 {
		t.Fatalf("expected 3 cells, got %d", n)
	}
	if c.Value(At(0, 0)) != "1000" || c.Value(At(0, 1)) != "0" || c.Value(At(1, 0)) != "2" {
		t.Errorf("unexpected values %v", c.Store().Data())
	}
}

func TestControllerDeleteKeys(t *testing.T) {
	c, rec := newTestController(StoreFrom([][]string{{"1", "2"}, {"3", "4"}}), nil)
	ctx := context.Background()
	drag(c, At(0, 0), At(0, 1))
	if !c.HandleKey(ctx, KeyEvent{Code: KeyBackspace}) {
		t.Fatalf("expected backspace to be consumed")
	}
	if c.Value(At(0, 0)) != "" || c.Value(At(0, 1)) != "" || c.Value(At(1, 0)) != "3" {
		t.Errorf("unexpected values after delete %v", c.Store().Data())
	}
	c.HandleKey(ctx, KeyEvent{Code: KeyDelete})
	if rec.calls() != 2 {
		t.Errorf("expected one notification per delete, got %d", rec.calls())
	}
	if c.HandleKey(ctx, KeyEvent{Code: KeyRune, Rune: 'x'}) {
		t.Errorf("plain runes should not be consumed")
	}
}

func TestControllerMountRoutesSignals(t *testing.T) {
	host := newFakeHost()
	c, _ := newTestController(NewStore(4, 4), nil)
	c.Mount(host)
	if host.count() != 1 {
		t.Fatalf("expected one subscription, got %d", host.count())
	}

	c.PointerDown(At(0, 0))
	c.PointerEnter(At(1, 1))
	host.emit(SignalPointerReleased)
	if c.IsSelecting() {
		t.Errorf("expected global release to end the drag")
	}
	c.PointerEnter(At(3, 3))
	if *c.Selection().End != At(1, 1) {
		t.Errorf("selection moved after release")
	}

	host.emit(SignalPointerPressedOutside)
	if !c.Selection().IsEmpty() {
		t.Errorf("expected press outside to clear the selection")
	}

	c.Mount(host)
	if host.count() != 1 {
		t.Errorf("remount should replace the subscription, got %d", host.count())
	}
	c.Unmount()
	if host.count() != 0 {
		t.Errorf("expected unsubscribe on unmount")
	}
	c.PointerDown(At(2, 2))
	host.emit(SignalPointerPressedOutside)
	if c.Selection().IsEmpty() {
		t.Errorf("signals delivered after unmount")
	}
}

func TestControllerGlobalReleaseCommitsFill(t *testing.T) {
	host := newFakeHost()
	store := StoreFrom([][]string{{"2", "x"}, {"4", "y"}, {"", ""}, {"", ""}})
	c, rec := newTestController(store, nil)
	c.Mount(host)
	defer c.Unmount()

	drag(c, At(0, 0), At(1, 1))
	c.FillHandleDown(At(1, 1))
	c.PointerEnter(At(3, 1))
	// The button comes up outside the grid, so only the global signal
	// reaches the controller.
	host.emit(SignalPointerReleased)

	if c.IsFilling() {
		t.Fatalf("expected the fill drag to end on global release")
	}
	if rec.calls() != 1 {
		t.Fatalf("expected one batch, got %d", rec.calls())
	}
	want := [][]string{{"2", "x"}, {"4", "y"}, {"6", "x"}, {"8", "y"}}
	for r, row := range want {
		for col, v := range row {
			if got := c.Value(At(r, col)); got != v {
				t.Errorf("(%d,%d): expected %q, got %q", r, col, v, got)
			}
		}
	}
}

func TestControllerPressOutsideDuringFillWritesNothing(t *testing.T) {
	host := newFakeHost()
	c, rec := newTestController(StoreFrom([][]string{{"1"}, {"2"}, {""}}), nil)
	c.Mount(host)
	defer c.Unmount()

	drag(c, At(0, 0), At(1, 0))
	c.FillHandleDown(At(1, 0))
	c.PointerEnter(At(2, 0))
	host.emit(SignalPointerPressedOutside)
	host.emit(SignalPointerReleased)

	if c.IsFilling() {
		t.Errorf("expected the fill drag to end")
	}
	if rec.calls() != 0 || c.Value(At(2, 0)) != "" {
		t.Errorf("fill without a selection must not write, got %v", c.Store().Data())
	}
}

func TestControllerSummary(t *testing.T) {
	c, _ := newTestController(StoreFrom([][]string{{"1", "2.5"}, {"x", ""}}), nil)
	if s := c.Summary(); s.Cells != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
	drag(c, At(1, 1), At(0, 0))
	s := c.Summary()
	if s.Cells != 4 || s.Numbers != 2 || s.Sum != 3.5 {
		t.Errorf("unexpected summary %+v", s)
	}
	if *s.Range.Start != At(0, 0) {
		t.Errorf("expected normalized range, got %v", s.Range)
	}
}

func TestControllerMoveAndSetValue(t *testing.T) {
	c, rec := newTestController(NewStore(3, 3), nil)
	c.MoveSelection(0, 0, false)
	c.MoveSelection(1, 1, false)
	c.SetValue(*c.Selection().Start, "hi")
	if c.Value(At(1, 1)) != "hi" {
		t.Errorf("expected hi at (1,1)")
	}
	c.SetValue(At(9, 9), "lost")
	if rec.calls() != 1 {
		t.Errorf("out of range write must not notify, got %d calls", rec.calls())
	}
}

func TestControllerStyle(t *testing.T) {
	c := NewController(NewStore(1, 1), Options{StyleFunc: func(cc CellCoord) string {
		if cc.Row == 0 {
			return "header"
		}
		return ""
	}})
	if c.Style(At(0, 0)) != "header" {
		t.Errorf("expected style token from StyleFunc")
	}
	if NewController(NewStore(1, 1), Options{}).Style(At(0, 0)) != "" {
		t.Errorf("expected no style without StyleFunc")
	}
}
