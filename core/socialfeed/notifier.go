package socialfeed

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"social-feed-api/core/interfaces"
)

// FailureEvent describes one failed feed refresh.
type FailureEvent struct {
	ID         string
	Provider   string
	CacheKey   string
	Err        error
	OccurredAt time.Time
}

// NewFailureEvent builds the event for a refresh of source that failed with err
func NewFailureEvent(source FeedSource, err error) FailureEvent {
	return FailureEvent{
		ID:         uuid.New().String(),
		Provider:   source.Provider(),
		CacheKey:   source.CacheKey(),
		Err:        err,
		OccurredAt: time.Now(),
	}
}

// FailureObserver receives failure events. It runs on the refreshing goroutine
// and should return quickly.
type FailureObserver func(event FailureEvent)

// Notifier fans failure events out to subscribed observers.
// The zero value is not usable; call NewNotifier. A nil *Notifier drops events.
type Notifier struct {
	mu        sync.RWMutex
	observers []FailureObserver
	logger    interfaces.Logger
}

// NewNotifier creates a notifier with no observers
func NewNotifier(logger interfaces.Logger) *Notifier {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Notifier{logger: logger}
}

// Subscribe registers an observer for all subsequent events
func (n *Notifier) Subscribe(observer FailureObserver) {
	if observer == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, observer)
}

// Notify delivers event to every observer in subscription order.
// A panicking observer is logged and skipped.
func (n *Notifier) Notify(event FailureEvent) {
	if n == nil {
		return
	}

	n.mu.RLock()
	observers := make([]FailureObserver, len(n.observers))
	copy(observers, n.observers)
	n.mu.RUnlock()

	for _, observer := range observers {
		n.deliver(observer, event)
	}
}

func (n *Notifier) deliver(observer FailureObserver, event FailureEvent) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Failure observer panicked", map[string]interface{}{
				"event_id": event.ID,
				"panic":    fmt.Sprint(r),
			})
		}
	}()

	observer(event)
}

// LoggingObserver returns an observer that logs every failure at error level.
func LoggingObserver(logger interfaces.Logger) FailureObserver {
	return func(event FailureEvent) {
		fields := map[string]interface{}{
			"event_id":  event.ID,
			"provider":  event.Provider,
			"cache_key": event.CacheKey,
		}
		if event.Err != nil {
			fields["error"] = event.Err.Error()
		}
		logger.Error("Social feed fetch failed", fields)
	}
}
