package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/samber/mo"

	"supportbot/core/log"
	"supportbot/utils"
)

// ErrSessionExists is returned by Create for an identifier that is already in use
var ErrSessionExists = errors.New("session already exists")

// Sessions is a concurrency-safe table of workflow sessions of one kind.
// Absence is the normal outcome for expired or consumed sessions.
type Sessions[T any] interface {
	Create(id string, payload T) error
	Get(id string) mo.Option[T]
	// Update mutates the stored payload in place and returns a copy of the result
	Update(id string, fn func(*T)) mo.Option[T]
	// Remove consumes the session. Removing an absent session is a no-op.
	Remove(id string) mo.Option[T]
	// RemoveIf consumes the session only if check accepts it. When check fails the session
	// stays in place and its payload is returned along with the error.
	RemoveIf(id string, check func(T) error) (mo.Option[T], error)
	Len() int
}

type entry[T any] struct {
	payload T
	timer   *time.Timer
}

// Table implements Sessions with one mutex per table. The lock is only held for map access;
// callers never run I/O inside it. Each entry carries an expiry timer that is stopped when
// the entry is consumed.
type Table[T any] struct {
	kind string
	ttl  time.Duration

	mu      sync.Mutex
	entries map[string]*entry[T]
	closed  bool
}

func NewTable[T any](kind string, ttl time.Duration) *Table[T] {
	utils.AssertInvariant(ttl > 0, "session ttl must be positive")
	return &Table[T]{
		kind:    kind,
		ttl:     ttl,
		entries: make(map[string]*entry[T]),
	}
}

func (t *Table[T]) Create(id string, payload T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[id]; exists {
		return ErrSessionExists
	}
	if t.closed {
		return errors.New("session table is closed")
	}

	e := &entry[T]{payload: payload}
	e.timer = time.AfterFunc(t.ttl, func() { t.expire(id, e) })
	t.entries[id] = e
	return nil
}

func (t *Table[T]) Get(id string) mo.Option[T] {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return mo.None[T]()
	}
	return mo.Some(e.payload)
}

func (t *Table[T]) Update(id string, fn func(*T)) mo.Option[T] {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return mo.None[T]()
	}
	fn(&e.payload)
	return mo.Some(e.payload)
}

func (t *Table[T]) Remove(id string) mo.Option[T] {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return mo.None[T]()
	}
	t.deleteLocked(id, e)
	return mo.Some(e.payload)
}

func (t *Table[T]) RemoveIf(id string, check func(T) error) (mo.Option[T], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return mo.None[T](), nil
	}
	if err := check(e.payload); err != nil {
		return mo.Some(e.payload), err
	}
	t.deleteLocked(id, e)
	return mo.Some(e.payload), nil
}

func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Close stops every pending expiry timer and drops all sessions
func (t *Table[T]) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, e := range t.entries {
		t.deleteLocked(id, e)
	}
	t.closed = true
}

func (t *Table[T]) deleteLocked(id string, e *entry[T]) {
	e.timer.Stop()
	delete(t.entries, id)
}

// expire removes the entry only if it is still the one the timer was armed for
func (t *Table[T]) expire(id string, e *entry[T]) {
	t.mu.Lock()
	current, ok := t.entries[id]
	if ok && current == e {
		delete(t.entries, id)
	}
	t.mu.Unlock()

	if ok && current == e {
		log.Debug("⏰ Session expired", "kind", t.kind, "session_id", id)
	}
}
