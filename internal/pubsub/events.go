// Package pubsub is a small typed publish/subscribe hub used to fan out log
// entries and database change notifications to the UI.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened. Subscribers switch on it to tell a routine
// notification from a failure.
type EventType string

const (
	LoggedEvent  EventType = "logged"  // The logger wrote an entry; payload is the entry
	ChangedEvent EventType = "changed" // The watcher saw the database or its WAL change
	FailedEvent  EventType = "failed"  // The watcher itself failed; payload carries the error
)

// Event is one published value. Timestamp is set by the broker at publish
// time, so the TUI can order log lines and debounce reloads without trusting
// the producer's clock.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber is the listening side: the app holds one for watcher events,
// and log.NewListener wraps one for log entries.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher is the side held by producers such as the logger and the
// database watcher. Publish must not block them.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

var (
	_ Subscriber[string] = (*Broker[string])(nil)
	_ Publisher[string]  = (*Broker[string])(nil)
)
