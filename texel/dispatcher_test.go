// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package texel

import "testing"

type recordingListener struct {
	events []Event
}

func (r *recordingListener) OnEvent(event Event) { r.events = append(r.events, event) }

func TestDispatcherBroadcastAndUnsubscribe(t *testing.T) {
	d := NewEventDispatcher()
	l := &recordingListener{}
	d.Subscribe(l)

	d.Broadcast(Event{Type: EventPointerPressed, Payload: PointerPayload{X: 1, Y: 2}})
	if len(l.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(l.events))
	}
	if p, ok := l.events[0].Payload.(PointerPayload); !ok || p.X != 1 || p.Y != 2 {
		t.Errorf("unexpected payload %#v", l.events[0].Payload)
	}

	d.Unsubscribe(l)
	d.Broadcast(Event{Type: EventPointerReleased})
	if len(l.events) != 1 {
		t.Errorf("expected no events after unsubscribe, got %d", len(l.events))
	}
}

func TestDispatcherSubscribeFunc(t *testing.T) {
	d := NewEventDispatcher()
	var got []EventType
	unsubscribe := d.SubscribeFunc(func(e Event) { got = append(got, e.Type) })
	other := d.SubscribeFunc(func(Event) {})

	d.Broadcast(Event{Type: EventPointerReleased})
	unsubscribe()
	d.Broadcast(Event{Type: EventPointerPressed})
	other()

	if len(got) != 1 || got[0] != EventPointerReleased {
		t.Errorf("expected only the release, got %v", got)
	}
}

func TestDispatcherListenerMayUnsubscribeItself(t *testing.T) {
	d := NewEventDispatcher()
	calls := 0
	var unsubscribe func()
	unsubscribe = d.SubscribeFunc(func(Event) {
		calls++
		unsubscribe()
	})
	d.Broadcast(Event{Type: EventPointerPressed})
	d.Broadcast(Event{Type: EventPointerPressed})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
