package plugin

import (
	"runtime"
	"sync"
	"weak"

	"github.com/google/uuid"
)

// QueryID identifies one query execution. Plugins key per-query state on the
// pointer; the state disappears once the QueryID is no longer referenced.
type QueryID struct {
	id uuid.UUID
}

// NewQueryID creates a fresh query identity.
func NewQueryID() *QueryID {
	return &QueryID{id: uuid.New()}
}

// String returns the identity as a UUID string.
func (q *QueryID) String() string {
	return q.id.String()
}

// QueryKind classifies a query for result handling.
type QueryKind int

const (
	// KindUnknown is reported for identities that were never marked.
	KindUnknown QueryKind = iota
	// KindRead marks a query whose rows should be deserialized.
	KindRead
	// KindWrite marks an insert, update, delete or raw statement.
	KindWrite
)

func (k QueryKind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// MarkerStore associates a QueryKind with a query identity without keeping the
// identity alive.
type MarkerStore struct {
	mu      sync.Mutex
	markers map[weak.Pointer[QueryID]]QueryKind
}

// NewMarkerStore creates an empty store.
func NewMarkerStore() *MarkerStore {
	return &MarkerStore{markers: make(map[weak.Pointer[QueryID]]QueryKind)}
}

// Mark records kind for id, replacing any earlier mark.
func (s *MarkerStore) Mark(id *QueryID, kind QueryKind) {
	if id == nil {
		return
	}
	key := weak.Make(id)

	s.mu.Lock()
	_, exists := s.markers[key]
	s.markers[key] = kind
	s.mu.Unlock()

	if !exists {
		runtime.AddCleanup(id, s.forget, key)
	}
}

// Kind returns the mark for id, or KindUnknown.
func (s *MarkerStore) Kind(id *QueryID) QueryKind {
	if id == nil {
		return KindUnknown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers[weak.Make(id)]
}

// Len returns the number of live marks.
func (s *MarkerStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}

func (s *MarkerStore) forget(key weak.Pointer[QueryID]) {
	s.mu.Lock()
	delete(s.markers, key)
	s.mu.Unlock()
}
