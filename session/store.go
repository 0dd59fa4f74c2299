// Package session keeps conversation transcripts between chat turns.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/inference-gateway/support-chat/providers"
)

// ErrInvalidID is returned for ids that NewID could not have produced
var ErrInvalidID = errors.New("invalid session id")

// Store maps a session id to its transcript. Unknown ids load as an empty transcript.
//
//go:generate mockgen -source=store.go -destination=../mocks/session_store.go -package=mocks
type Store interface {
	Load(ctx context.Context, id string) ([]providers.Message, error)
	Save(ctx context.Context, id string, transcript []providers.Message) error
	Delete(ctx context.Context, id string) error

	// Lock serializes read-modify-write cycles on one session
	Lock(id string) (unlock func())
}

const idPrefix = "ses_"

// NewID returns a fresh session id
func NewID() string {
	return idPrefix + uuid.NewString()
}

// ValidID reports whether id has the shape produced by NewID
func ValidID(id string) bool {
	if !strings.HasPrefix(id, idPrefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(id, idPrefix))
	return err == nil
}

// KeyedMutex hands out one mutex per key and forgets it once nobody holds it
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: map[string]*refMutex{}}
}

func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.Unlock()
			k.mu.Lock()
			m.refs--
			if m.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}

// size is the number of keys currently tracked
func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func cloneTranscript(in []providers.Message) []providers.Message {
	if in == nil {
		return []providers.Message{}
	}
	out := make([]providers.Message, len(in))
	for i, msg := range in {
		out[i] = msg
		if msg.ToolCalls != nil {
			out[i].ToolCalls = append([]providers.ChatCompletionMessageToolCall(nil), msg.ToolCalls...)
		}
	}
	return out
}
