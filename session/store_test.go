package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-gateway/support-chat/providers"
)

func sampleTranscript() []providers.Message {
	return []providers.Message{
		{Role: providers.MessageRoleUser, Content: "What's the price of product MON-0056?"},
		{Role: providers.MessageRoleAssistant, ToolCalls: []providers.ChatCompletionMessageToolCall{{
			ID:   "call_1",
			Type: providers.ChatCompletionToolTypeFunction,
			Function: providers.ChatCompletionMessageToolCallFunction{
				Name:      "get_product",
				Arguments: `{"sku":"MON-0056"}`,
			},
		}}},
		{Role: providers.MessageRoleTool, ToolCallID: "call_1", Content: `{"price":349.99}`},
		{Role: providers.MessageRoleAssistant, Content: "It costs $349.99."},
	}
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client, ttl), mr
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore(time.Hour) },
		"redis": func(t *testing.T) Store {
			s, _ := newRedisStore(t, time.Hour)
			return s
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			id := NewID()

			empty, err := s.Load(ctx, id)
			require.NoError(t, err)
			assert.NotNil(t, empty)
			assert.Empty(t, empty)

			require.NoError(t, s.Save(ctx, id, sampleTranscript()))

			loaded, err := s.Load(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, sampleTranscript(), loaded)

			// loaded transcripts are copies
			loaded[0].Content = "changed"
			again, err := s.Load(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "What's the price of product MON-0056?", again[0].Content)

			other, err := s.Load(ctx, NewID())
			require.NoError(t, err)
			assert.Empty(t, other)

			require.NoError(t, s.Delete(ctx, id))
			cleared, err := s.Load(ctx, id)
			require.NoError(t, err)
			assert.Empty(t, cleared)
		})
	}
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Minute)
	id := NewID()

	require.NoError(t, s.Save(ctx, id, sampleTranscript()))
	assert.Equal(t, time.Minute, mr.TTL(DefaultRedisPrefix+id))

	mr.FastForward(2 * time.Minute)
	loaded, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	id := NewID()
	require.NoError(t, mr.Set(DefaultRedisPrefix+id, "{not json"))

	_, err := s.Load(context.Background(), id)
	assert.Error(t, err)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, RedisConfig{Addr: addr, TTL: time.Minute})
	assert.Error(t, err)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(20 * time.Millisecond)
	id := NewID()

	require.NoError(t, s.Save(ctx, id, sampleTranscript()))
	assert.Equal(t, 1, s.Len())

	time.Sleep(40 * time.Millisecond)
	loaded, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestKeyedMutex(t *testing.T) {
	k := NewKeyedMutex()

	var mu sync.Mutex
	inside := map[string]int{}
	maxInside := map[string]int{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		key := "a"
		if i%2 == 0 {
			key = "b"
		}
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			unlock := k.Lock(key)
			defer unlock()

			mu.Lock()
			inside[key]++
			if inside[key] > maxInside[key] {
				maxInside[key] = inside[key]
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside[key]--
			mu.Unlock()
		}(key)
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside["a"])
	assert.Equal(t, 1, maxInside["b"])
	assert.Equal(t, 0, k.size())
}

func TestKeyedMutex_UnlockTwice(t *testing.T) {
	k := NewKeyedMutex()
	unlock := k.Lock("a")
	unlock()
	assert.NotPanics(t, unlock)

	unlock = k.Lock("a")
	unlock()
}

func TestIDs(t *testing.T) {
	id := NewID()
	assert.True(t, ValidID(id))
	assert.NotEqual(t, id, NewID())
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("ses_not-a-uuid"))
	assert.False(t, ValidID("3b241101-e2bb-4255-8caf-4136c566a962"))
}
