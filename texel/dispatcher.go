// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/dispatcher.go
// Summary: Implements the event dispatcher that fans out global pointer
// signals to interested components.

package texel

import "sync"

// EventType defines the type of an event.
type EventType int

const (
	// Pointer Events
	EventPointerPressed EventType = iota
	EventPointerReleased
)

func (t EventType) String() string {
	switch t {
	case EventPointerPressed:
		return "pointer-pressed"
	case EventPointerReleased:
		return "pointer-released"
	default:
		return "unknown"
	}
}

// Event represents a message passed through the system.
// It has a type and can carry an arbitrary data payload.
type Event struct {
	Type    EventType
	Payload interface{}
}

// PointerPayload is the data carried by pointer events: the screen
// position of the press or release.
type PointerPayload struct {
	X, Y int
}

// Listener is an interface that any component can implement to receive events.
type Listener interface {
	// OnEvent is the callback method for receiving events.
	OnEvent(event Event)
}

type funcListener struct {
	fn func(Event)
}

func (l *funcListener) OnEvent(event Event) { l.fn(event) }

// EventDispatcher manages a list of listeners and broadcasts events to them.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewEventDispatcher creates a new dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		listeners: make([]Listener, 0),
	}
}

// Subscribe adds a new listener to receive events.
func (d *EventDispatcher) Subscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, listener)
}

// SubscribeFunc registers fn and returns the function that removes it.
func (d *EventDispatcher) SubscribeFunc(fn func(Event)) (unsubscribe func()) {
	l := &funcListener{fn: fn}
	d.Subscribe(l)
	return func() { d.Unsubscribe(l) }
}

// Unsubscribe removes a listener.
func (d *EventDispatcher) Unsubscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.listeners {
		if l == listener {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			break
		}
	}
}

// Broadcast sends an event to all subscribed listeners. Listeners run on
// the caller's goroutine, outside the dispatcher lock, so they may
// unsubscribe themselves.
func (d *EventDispatcher) Broadcast(event Event) {
	d.mu.RLock()
	listeners := append([]Listener(nil), d.listeners...)
	d.mu.RUnlock()
	for _, l := range listeners {
		l.OnEvent(event)
	}
}
