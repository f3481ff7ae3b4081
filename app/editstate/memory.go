package editstate

import (
	"context"
	"sync"
	"time"

	"github.com/FirstTop/wb-reviews-agent/app/review"
)

var _ review.EditSessions = (*MemoryStore)(nil)

type memoryEntry struct {
	reviewID  int64
	expiresAt time.Time
}

// MemoryStore is the in-process fallback when no Redis address is
// configured. Sessions are lost on restart, which only means the
// operator presses the edit button again.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[int64]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[int64]memoryEntry),
	}
}

func (s *MemoryStore) SetAwaiting(_ context.Context, operatorID, reviewID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[operatorID] = memoryEntry{
		reviewID:  reviewID,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, operatorID int64) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[operatorID]
	if !ok {
		return 0, false, nil
	}

	delete(s.sessions, operatorID)

	if s.now().After(entry.expiresAt) {
		return 0, false, nil
	}

	return entry.reviewID, true, nil
}
