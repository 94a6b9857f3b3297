// Package notifier provides a simple broadcast mechanism for SSE updates.
package notifier

import "sync"

// bufferSize is the number of pending events a slow listener may hold
// before further events are dropped for it.
const bufferSize = 8

// Event announces that a post changed. PostID is 0 when the change is not
// tied to a single post.
type Event struct {
	PostID int64
}

// Subscription receives events until it is unsubscribed.
type Subscription struct {
	C <-chan Event
	c chan Event
}

// Notifier broadcasts board changes to all subscribed listeners.
// Listeners re-query the store when an event arrives.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[*Subscription]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a listener.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() *Subscription {
	ch := make(chan Event, bufferSize)
	sub := &Subscription{C: ch, c: ch}
	n.mu.Lock()
	n.listeners[sub] = struct{}{}
	n.mu.Unlock()
	return sub
}

// Unsubscribe removes a listener and closes its channel. It is safe to call
// more than once.
func (n *Notifier) Unsubscribe(sub *Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[sub]; !ok {
		return
	}
	delete(n.listeners, sub)
	close(sub.c)
}

// Publish sends ev to all listeners.
// Non-blocking: if a listener's buffer is full, the event is skipped for it.
func (n *Notifier) Publish(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for sub := range n.listeners {
		select {
		case sub.c <- ev:
		default:
			// listener will catch up on the next event
		}
	}
}

// Len returns the number of active listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
