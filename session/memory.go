package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/inference-gateway/support-chat/providers"
)

// MemoryStore keeps transcripts in process memory. Sessions idle for longer than the TTL expire.
type MemoryStore struct {
	*KeyedMutex
	items *cache.Cache
	ttl   time.Duration
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	cleanup := ttl
	if cleanup <= 0 || cleanup > 10*time.Minute {
		cleanup = 10 * time.Minute
	}
	return &MemoryStore{
		KeyedMutex: NewKeyedMutex(),
		items:      cache.New(ttl, cleanup),
		ttl:        ttl,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) ([]providers.Message, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return []providers.Message{}, nil
	}
	return cloneTranscript(v.([]providers.Message)), nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, transcript []providers.Message) error {
	s.items.Set(id, cloneTranscript(transcript), s.ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.items.Delete(id)
	return nil
}

func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}
