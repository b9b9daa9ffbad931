// Package notify implements the synchronous change notifier the store calls
// after every save.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mj36/internal/logging"
)

// EventKind names what happened to the persisted state.
type EventKind string

const (
	EventDataChanged    EventKind = "dataChanged"
	EventFeatureChanged EventKind = "featureChanged"
	EventDataReset      EventKind = "dataReset"
	// EventExternalChange is emitted when another process wrote a newer
	// version of the document.
	EventExternalChange EventKind = "externalChange"
)

// Watcher is called with the event kind and its payload. A returned error is
// logged and does not stop delivery to later watchers.
type Watcher func(ctx context.Context, kind EventKind, payload any) error

// Subscription identifies a registered watcher for RemoveWatcher.
type Subscription uint64

// Notifier keeps watchers in registration order.
//
// Notify iterates over a snapshot of the list taken when dispatch starts, so
// a watcher added or removed while a dispatch is running takes effect from
// the next Notify call.
type Notifier struct {
	mu       sync.Mutex
	next     Subscription
	watchers []entry
	logger   logging.Logger
}

type entry struct {
	id Subscription
	fn Watcher
}

func New(logger logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Notifier{logger: logger}
}

// AddWatcher registers fn and returns its subscription.
func (n *Notifier) AddWatcher(fn Watcher) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.next++
	n.watchers = append(n.watchers, entry{id: n.next, fn: fn})
	return n.next
}

// RemoveWatcher unregisters sub. Unknown subscriptions are ignored.
func (n *Notifier) RemoveWatcher(sub Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()

	kept := n.watchers[:0:0]
	for _, w := range n.watchers {
		if w.id != sub {
			kept = append(kept, w)
		}
	}
	n.watchers = kept
}

// Len returns the number of registered watchers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.watchers)
}

// Notify calls every watcher in order. Errors and panics are logged and
// never reach the caller.
func (n *Notifier) Notify(ctx context.Context, kind EventKind, payload any) {
	n.mu.Lock()
	snapshot := make([]entry, len(n.watchers))
	copy(snapshot, n.watchers)
	n.mu.Unlock()

	for _, w := range snapshot {
		if err := n.call(ctx, w.fn, kind, payload); err != nil {
			n.logger.Error(ctx, "watcher failed", "event", string(kind), "subscription", uint64(w.id), "error", err)
		}
	}
}

func (n *Notifier) call(ctx context.Context, fn Watcher, kind EventKind, payload any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("watcher panicked: %v", p)
		}
	}()
	return fn(ctx, kind, payload)
}
