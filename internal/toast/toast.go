// Package toast is a bounded notification queue. Any component holding the
// dispatcher can enqueue a message; subscribers receive every state change
// synchronously. A dismissed toast stays in the queue with Open=false until
// the removal delay elapses, then it is purged.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

type Message struct {
	ID          string
	Title       string
	Description string
	Variant     Variant
	Open        bool
}

// Handle lets the caller dismiss the toast it created.
type Handle struct {
	ID      string
	Dismiss func()
}

type Options struct {
	Limit       int
	RemoveDelay time.Duration
}

// Dispatcher is handed to containers explicitly rather than living as
// package state, so tests get isolated queues.
type Dispatcher struct {
	mu        sync.Mutex
	limit     int
	delay     time.Duration
	toasts    []Message
	timers    map[string]*time.Timer
	listeners map[int]func([]Message)
	nextSub   int
}

func NewDispatcher(opts Options) *Dispatcher {
	limit := opts.Limit
	if limit < 1 {
		limit = 1
	}
	delay := opts.RemoveDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &Dispatcher{
		limit:     limit,
		delay:     delay,
		timers:    make(map[string]*time.Timer),
		listeners: make(map[int]func([]Message)),
	}
}

// Show enqueues a toast. The newest toast is kept at the front; anything
// beyond the cap is evicted immediately.
func (d *Dispatcher) Show(msg Message) Handle {
	d.mu.Lock()

	msg.ID = uuid.NewString()
	msg.Open = true
	if msg.Variant == "" {
		msg.Variant = VariantDefault
	}

	d.toasts = append([]Message{msg}, d.toasts...)
	for _, evicted := range d.toasts[min(d.limit, len(d.toasts)):] {
		d.stopTimer(evicted.ID)
	}
	d.toasts = d.toasts[:min(d.limit, len(d.toasts))]

	d.notifyLocked()

	id := msg.ID
	return Handle{ID: id, Dismiss: func() { d.Dismiss(id) }}
}

// Dismiss flips the toast to Open=false and schedules its removal. An empty
// id dismisses everything.
func (d *Dispatcher) Dismiss(id string) {
	d.mu.Lock()

	for i := range d.toasts {
		if id == "" || d.toasts[i].ID == id {
			d.toasts[i].Open = false
			d.scheduleRemove(d.toasts[i].ID)
		}
	}

	d.notifyLocked()
}

// Subscribe registers a render callback and returns its disposer. The
// callback fires synchronously on every state change.
func (d *Dispatcher) Subscribe(fn func([]Message)) func() {
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.listeners[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// Messages returns a snapshot of the current queue, newest first.
func (d *Dispatcher) Messages() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Message(nil), d.toasts...)
}

// Close stops all pending removal timers.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, timer := range d.timers {
		timer.Stop()
		delete(d.timers, id)
	}
}

func (d *Dispatcher) scheduleRemove(id string) {
	if _, ok := d.timers[id]; ok {
		return
	}
	d.timers[id] = time.AfterFunc(d.delay, func() {
		d.remove(id)
	})
}

func (d *Dispatcher) remove(id string) {
	d.mu.Lock()
	d.stopTimer(id)
	kept := d.toasts[:0]
	for _, t := range d.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	d.toasts = kept
	d.notifyLocked()
}

func (d *Dispatcher) stopTimer(id string) {
	if timer, ok := d.timers[id]; ok {
		timer.Stop()
		delete(d.timers, id)
	}
}

// notifyLocked fans the current snapshot out to subscribers and releases
// the lock first, so a callback may re-enter the dispatcher.
func (d *Dispatcher) notifyLocked() {
	snapshot := append([]Message(nil), d.toasts...)
	listeners := make([]func([]Message), 0, len(d.listeners))
	for _, fn := range d.listeners {
		listeners = append(listeners, fn)
	}
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
