package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prepiq/prepiq-service/internal/cache"
)

const (
	snapshotKeyPrefix = "quiz_"

	// snapshots are ephemeral working state; they expire well after any
	// plausible time limit rather than living forever in Redis
	snapshotTTL = 12 * time.Hour
)

// CacheStore persists snapshots through the shared cache service, keyed by
// quiz id so concurrent sessions with distinct ids never collide.
type CacheStore struct {
	cache cache.CacheService
}

func NewCacheStore(c cache.CacheService) *CacheStore {
	return &CacheStore{cache: c}
}

func (s *CacheStore) Save(ctx context.Context, quizID string, snap Snapshot) error {
	return s.cache.Set(ctx, snapshotKeyPrefix+quizID, snap, snapshotTTL)
}

func (s *CacheStore) Load(ctx context.Context, quizID string) (*Snapshot, error) {
	var snap Snapshot
	if err := s.cache.Get(ctx, snapshotKeyPrefix+quizID, &snap); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

func (s *CacheStore) Delete(ctx context.Context, quizID string) error {
	return s.cache.Delete(ctx, snapshotKeyPrefix+quizID)
}

// MemoryStore is an in-process SnapshotStore used in tests and as a fallback
// when Redis is not configured.
type MemoryStore struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

func (s *MemoryStore) Save(ctx context.Context, quizID string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[quizID] = snap
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, quizID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[quizID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *MemoryStore) Delete(ctx context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, quizID)
	return nil
}
