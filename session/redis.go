package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inference-gateway/support-chat/providers"
)

const DefaultRedisPrefix = "support-chat:session:"

// RedisStore keeps transcripts as JSON values with a sliding TTL. The lock is
// process local, so a deployment with several replicas needs sticky sessions.
type RedisStore struct {
	*KeyedMutex
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisStore connects to redis and verifies the connection with a PING
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return NewRedisStoreWithClient(client, cfg.TTL), nil
}

func NewRedisStoreWithClient(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		KeyedMutex: NewKeyedMutex(),
		client:     client,
		prefix:     DefaultRedisPrefix,
		ttl:        ttl,
	}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) ([]providers.Message, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []providers.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	var transcript []providers.Message
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return cloneTranscript(transcript), nil
}

func (s *RedisStore) Save(ctx context.Context, id string, transcript []providers.Message) error {
	data, err := json.Marshal(cloneTranscript(transcript))
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", id, err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
