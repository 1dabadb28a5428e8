// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/devshell/runner_test.go
// Summary: Drives the runner with a simulation screen and a stub app.

package devshell_test

import (
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelsheet/internal/devshell"
	"github.com/framegrace/texelsheet/texel"
)

type stubApp struct {
	mu           sync.Mutex
	renderCount  int
	resizes      [][2]int
	keys         []*tcell.EventKey
	stopCalled   bool
	stopCh       chan struct{}
	runStarted   chan struct{}
	runCompleted chan struct{}
	refresh      chan<- bool
	runErr       error
	pastes       []string
	clipboards   []string
	sink         texel.ClipboardSink
}

func newStubApp() *stubApp {
	return &stubApp{
		stopCh:       make(chan struct{}),
		runStarted:   make(chan struct{}),
		runCompleted: make(chan struct{}),
	}
}

func (a *stubApp) Run() error {
	close(a.runStarted)
	<-a.stopCh
	close(a.runCompleted)
	return a.runErr
}

func (a *stubApp) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopCalled {
		return
	}
	a.stopCalled = true
	close(a.stopCh)
}

func (a *stubApp) Resize(cols, rows int) {
	a.mu.Lock()
	a.resizes = append(a.resizes, [2]int{cols, rows})
	a.mu.Unlock()
}

func (a *stubApp) Render() [][]texel.Cell {
	a.mu.Lock()
	a.renderCount++
	a.mu.Unlock()
	return [][]texel.Cell{{{Ch: 'X'}}}
}

func (a *stubApp) HandleKey(ev *tcell.EventKey) {
	a.mu.Lock()
	a.keys = append(a.keys, ev)
	a.mu.Unlock()
}

func (a *stubApp) HandlePaste(data []byte) {
	a.mu.Lock()
	a.pastes = append(a.pastes, string(data))
	a.mu.Unlock()
}

func (a *stubApp) SetClipboardSink(sink texel.ClipboardSink) {
	a.mu.Lock()
	a.sink = sink
	a.mu.Unlock()
}

func (a *stubApp) HandleClipboard(data []byte) {
	a.mu.Lock()
	a.clipboards = append(a.clipboards, string(data))
	a.mu.Unlock()
}

func (a *stubApp) recordedPastes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.pastes...)
}

func (a *stubApp) recordedClipboards() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.clipboards...)
}

func (a *stubApp) SetRefreshNotifier(ch chan<- bool) { a.refresh = ch }
func (a *stubApp) GetTitle() string                  { return "stub" }

func (a *stubApp) waitRunStarted(t *testing.T) {
	t.Helper()
	select {
	case <-a.runStarted:
	case <-time.After(time.Second):
		t.Fatal("app.Run was not invoked")
	}
}

func (a *stubApp) waitRunCompleted(t *testing.T) {
	t.Helper()
	select {
	case <-a.runCompleted:
	case <-time.After(time.Second):
		t.Fatal("app was not stopped")
	}
}

func (a *stubApp) renderCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renderCount
}

func (a *stubApp) lastResize() (int, int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.resizes) == 0 {
		return 0, 0, false
	}
	last := a.resizes[len(a.resizes)-1]
	return last[0], last[1], true
}

func (a *stubApp) recordedKeys() []*tcell.EventKey {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*tcell.EventKey, len(a.keys))
	copy(out, a.keys)
	return out
}

func (a *stubApp) requestRefresh() {
	if a.refresh == nil {
		return
	}
	select {
	case a.refresh <- true:
	default:
	}
}

// sendRefresh reports whether a refresh was accepted within timeout.
func (a *stubApp) sendRefresh(timeout time.Duration) bool {
	select {
	case a.refresh <- true:
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestRunHandlesInputRefreshAndShutdown(t *testing.T) {
	defer devshell.SetScreenFactory(nil)

	screen := tcell.NewSimulationScreen("UTF-8")
	devshell.SetScreenFactory(func() (tcell.Screen, error) {
		return screen, nil
	})

	app := newStubApp()
	errCh := make(chan error, 1)
	go func() {
		errCh <- devshell.RunApp(app)
	}()

	app.waitRunStarted(t)

	// Initial draw should have rendered at least once.
	if calls := app.renderCalls(); calls == 0 {
		t.Fatalf("expected initial render, got %d", calls)
	}

	// Trigger a refresh and expect another render.
	app.requestRefresh()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if app.renderCalls() > 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if app.renderCalls() <= 1 {
		t.Fatalf("expected render after refresh, got %d", app.renderCalls())
	}

	// Send key event and verify it reaches the app.
	screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', 0))
	waitFor(func() bool {
		keys := app.recordedKeys()
		return len(keys) > 0 && keys[0].Rune() == 'x'
	}, 500*time.Millisecond, t, "key press to be handled")

	// Send resize and confirm app receives new size.
	screen.PostEvent(tcell.NewEventResize(50, 12))
	waitFor(func() bool {
		w, h, ok := app.lastResize()
		return ok && w == 50 && h == 12
	}, 500*time.Millisecond, t, "resize event to be handled")

	// Ctrl-C belongs to the app.
	screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	waitFor(func() bool {
		keys := app.recordedKeys()
		return len(keys) > 1 && keys[len(keys)-1].Key() == tcell.KeyCtrlC
	}, 500*time.Millisecond, t, "ctrl-c to reach the app")

	// Exit via Ctrl-Q.
	screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not exit after Ctrl-Q")
	}

	app.waitRunCompleted(t)
	if !app.stopCalled {
		t.Fatal("app.Stop was not invoked")
	}
}

func TestRunStopsDrainingRefreshesAfterExit(t *testing.T) {
	defer devshell.SetScreenFactory(nil)

	screen := tcell.NewSimulationScreen("UTF-8")
	devshell.SetScreenFactory(func() (tcell.Screen, error) {
		return screen, nil
	})

	app := newStubApp()
	errCh := make(chan error, 1)
	go func() {
		errCh <- devshell.RunApp(app)
	}()
	app.waitRunStarted(t)

	screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not exit after Ctrl-Q")
	}
	time.Sleep(50 * time.Millisecond)

	// The notifier holds one pending refresh; with nobody reading, the
	// second send has to block.
	if !app.sendRefresh(100 * time.Millisecond) {
		t.Fatal("first refresh should fit in the buffer")
	}
	if app.sendRefresh(100 * time.Millisecond) {
		t.Fatal("refresh channel is still being drained after RunApp returned")
	}
}

func TestRunForwardsPasteAndClipboard(t *testing.T) {
	defer devshell.SetScreenFactory(nil)

	screen := tcell.NewSimulationScreen("UTF-8")
	devshell.SetScreenFactory(func() (tcell.Screen, error) {
		return screen, nil
	})

	app := newStubApp()
	errCh := make(chan error, 1)
	go func() {
		errCh <- devshell.RunApp(app)
	}()
	app.waitRunStarted(t)

	app.mu.Lock()
	sink := app.sink
	app.mu.Unlock()
	if sink == nil {
		t.Fatal("expected the screen to be handed over as clipboard sink")
	}

	screen.PostEvent(tcell.NewEventPaste(true))
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, '1', 0),
		tcell.NewEventKey(tcell.KeyTab, 0, 0),
		tcell.NewEventKey(tcell.KeyRune, '2', 0),
		tcell.NewEventKey(tcell.KeyEnter, 0, 0),
		tcell.NewEventKey(tcell.KeyRune, '3', 0),
	} {
		screen.PostEvent(ev)
	}
	screen.PostEvent(tcell.NewEventPaste(false))
	waitFor(func() bool {
		pastes := app.recordedPastes()
		return len(pastes) == 1 && pastes[0] == "1\t2\n3"
	}, 500*time.Millisecond, t, "paste to be delivered in one piece")
	if keys := app.recordedKeys(); len(keys) != 0 {
		t.Errorf("paste keys must not reach HandleKey, got %d", len(keys))
	}

	screen.PostEvent(tcell.NewEventClipboard([]byte("a\tb")))
	waitFor(func() bool {
		clips := app.recordedClipboards()
		return len(clips) == 1 && clips[0] == "a\tb"
	}, 500*time.Millisecond, t, "clipboard reply to be forwarded")

	screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not exit after Ctrl-Q")
	}
}

func waitFor(cond func() bool, timeout time.Duration, t *testing.T, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", msg)
}
