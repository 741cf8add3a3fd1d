package scheduler

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Subscriber is a transport-agnostic broadcast sink: a WebSocket connection,
// an SSE stream, or a test harness. Send is called with one already-encoded
// wire message per broadcast.
type Subscriber interface {
	Send(message []byte) error
}

// Broadcaster fans a message out to every subscribed sink, evicting any sink
// whose Send fails. Subscriber identity is a UUID (the reference project
// keys connected_clients by the websocket connection itself; this
// implementation hands the caller an opaque id instead, so it can unsubscribe
// without needing to compare interface values).
type Broadcaster struct {
	mu   sync.Mutex
	subs map[uuid.UUID]Subscriber
}

// NewBroadcaster constructs an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uuid.UUID]Subscriber)}
}

// Subscribe registers sub and returns the id future calls use to unsubscribe.
func (b *Broadcaster) Subscribe(sub Subscriber) uuid.UUID {
	id := uuid.New()
	b.mu.Lock()
	b.subs[id] = sub
	b.mu.Unlock()
	return id
}

// SubscribeAndSend registers sub and immediately sends it initial, the
// connect-time message a fresh subscriber needs before it can make sense of
// later broadcasts (e.g. the static terrain map, sent once per subscriber).
// A send failure evicts sub the same way a failed Broadcast send would.
func (b *Broadcaster) SubscribeAndSend(sub Subscriber, initial []byte) uuid.UUID {
	id := b.Subscribe(sub)
	if err := sub.Send(initial); err != nil {
		slog.Error("error sending initial message to subscriber", "subscriber", id, "error", err)
		b.Unsubscribe(id)
	}
	return id
}

// Unsubscribe removes a sink, e.g. on client disconnect. Idempotent.
func (b *Broadcaster) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Len reports the number of currently subscribed sinks.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Broadcast sends message to every subscriber, removing any that error.
func (b *Broadcaster) Broadcast(message []byte) {
	b.mu.Lock()
	snapshot := make(map[uuid.UUID]Subscriber, len(b.subs))
	for id, s := range b.subs {
		snapshot[id] = s
	}
	b.mu.Unlock()

	var failed []uuid.UUID
	for id, s := range snapshot {
		if err := s.Send(message); err != nil {
			slog.Error("error sending message to subscriber", "subscriber", id, "error", err)
			failed = append(failed, id)
		}
	}
	if len(failed) == 0 {
		return
	}

	b.mu.Lock()
	for _, id := range failed {
		delete(b.subs, id)
	}
	b.mu.Unlock()
	slog.Info("removed disconnected subscribers", "count", len(failed))
}
