// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/gridsheet/clipboard.go
// Summary: Terminal clipboard bridge with an in-process fallback.
// Notes: Reads are asynchronous on a terminal: GetClipboard asks, the
// answer arrives later as an event that the runner forwards to Deliver.

package gridsheet

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/framegrace/texelsheet/sheet"
	"github.com/framegrace/texelsheet/texel"
)

// DefaultClipboardTimeout bounds how long a read waits for the terminal.
const DefaultClipboardTimeout = 300 * time.Millisecond

// TerminalClipboard implements sheet.Clipboard over a terminal sink.
// Everything written is also kept locally, so reads still work when the
// terminal does not answer clipboard queries.
type TerminalClipboard struct {
	mu       sync.Mutex
	sink     texel.ClipboardSink
	fallback *sheet.MemoryClipboard
	timeout  time.Duration
	pending  []chan []byte
}

// NewTerminalClipboard returns a bridge with no sink; it behaves like a
// memory clipboard until SetSink is called.
func NewTerminalClipboard(timeout time.Duration) *TerminalClipboard {
	if timeout <= 0 {
		timeout = DefaultClipboardTimeout
	}
	return &TerminalClipboard{
		fallback: sheet.NewMemoryClipboard(),
		timeout:  timeout,
	}
}

// SetSink attaches the terminal. Passing nil detaches it.
func (c *TerminalClipboard) SetSink(sink texel.ClipboardSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink = sink
}

func (c *TerminalClipboard) WriteText(ctx context.Context, text string) error {
	if err := c.fallback.WriteText(ctx, text); err != nil {
		return err
	}
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()
	if sink != nil {
		sink.SetClipboard([]byte(text))
	}
	return nil
}

// ReadText asks the terminal and waits for Deliver. An empty answer or no
// answer within the timeout falls back to the local copy.
func (c *TerminalClipboard) ReadText(ctx context.Context) (string, error) {
	c.mu.Lock()
	sink := c.sink
	if sink == nil {
		c.mu.Unlock()
		return c.fallback.ReadText(ctx)
	}
	ch := make(chan []byte, 1)
	c.pending = append(c.pending, ch)
	c.mu.Unlock()

	sink.GetClipboard()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case data := <-ch:
		if len(data) == 0 {
			return c.fallback.ReadText(ctx)
		}
		return string(data), nil
	case <-ctx.Done():
		c.drop(ch)
		return "", ctx.Err()
	case <-timer.C:
		c.drop(ch)
		log.Printf("GridSheet: Terminal clipboard did not answer within %v, using local copy", c.timeout)
		return c.fallback.ReadText(ctx)
	}
}

// Deliver answers every read waiting for the terminal.
func (c *TerminalClipboard) Deliver(data []byte) {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, ch := range pending {
		ch <- append([]byte(nil), data...)
	}
}

func (c *TerminalClipboard) drop(ch chan []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.pending {
		if p == ch {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}
