package history

import (
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded analysis result for a user. Entries are append-only
// and never mutated after creation.
type Entry struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Label             string    `json:"label"`
	ConfidencePercent int       `json:"confidence_percent"`
	Timestamp         time.Time `json:"timestamp"`
}

// Store is the append-only per-user history contract. Retention and pruning
// are a collaborator policy, not part of this contract.
type Store interface {
	// Record appends a result for a user at the given timestamp.
	Record(userID, label string, confidencePercent int, timestamp time.Time) (Entry, error)

	// List yields the user's entries ordered by timestamp ascending.
	// The sequence is lazy and restartable; it iterates a snapshot, so
	// concurrent appends do not affect an in-progress iteration.
	List(userID string) iter.Seq[Entry]
}

// MemoryStore keeps history in memory, keyed by user. Appends are safe under
// concurrent writers; per-user ordering is maintained with a stable
// timestamp-sorted insert so equal timestamps keep arrival order.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewMemoryStore creates an empty in-memory history store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]Entry),
	}
}

// Record appends an entry for the user, keeping the slice timestamp-ordered
func (s *MemoryStore) Record(userID, label string, confidencePercent int, timestamp time.Time) (Entry, error) {
	if userID == "" {
		return Entry{}, fmt.Errorf("user ID cannot be empty")
	}

	entry := Entry{
		ID:                uuid.NewString(),
		UserID:            userID,
		Label:             label,
		ConfidencePercent: confidencePercent,
		Timestamp:         timestamp,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entries[userID]

	// Entries usually arrive in order; only out-of-order timestamps need
	// the insertion search. sort.Search keeps equal timestamps stable by
	// inserting after them.
	idx := sort.Search(len(list), func(i int) bool {
		return list[i].Timestamp.After(timestamp)
	})

	list = append(list, Entry{})
	copy(list[idx+1:], list[idx:])
	list[idx] = entry
	s.entries[userID] = list

	return entry, nil
}

// List yields the user's entries by timestamp ascending over a snapshot
func (s *MemoryStore) List(userID string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		s.mu.RLock()
		snapshot := make([]Entry, len(s.entries[userID]))
		copy(snapshot, s.entries[userID])
		s.mu.RUnlock()

		for _, entry := range snapshot {
			if !yield(entry) {
				return
			}
		}
	}
}

// Count returns the number of entries stored for a user
func (s *MemoryStore) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[userID])
}
