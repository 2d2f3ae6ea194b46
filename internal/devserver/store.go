package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/storychat/storychat/internal/infrastructure/redis"
)

// Message is one stored conversation message. Flagged marks a user message
// the grader judged incorrect.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Flagged bool   `json:"flagged"`
}

// Conversation is the per-student, per-lesson chat record.
type Conversation struct {
	ID       int64     `json:"id"`
	ThreadID string    `json:"thread_id"`
	FileID   int64     `json:"file_id"`
	Ended    bool      `json:"ended"`
	Messages []Message `json:"messages"`
}

// ConversationStore persists conversations keyed by student and lesson.
type ConversationStore interface {
	Lookup(ctx context.Context, username string, fileID int64) (*Conversation, error)
	Save(ctx context.Context, username string, convo *Conversation) error
	NextID(ctx context.Context) (int64, error)
}

// NewConversationStore picks Redis when it is configured and reachable,
// memory otherwise.
func NewConversationStore() ConversationStore {
	if redisService := redis.NewService(); redisService != nil {
		log.Info().Msg("Conversation store backed by Redis")
		return &RedisStore{redisService: redisService}
	}
	log.Info().Msg("Conversation store backed by memory")
	return newMemoryStore()
}

type RedisStore struct {
	redisService *redis.Service
}

func conversationKey(username string, fileID int64) string {
	return fmt.Sprintf("conversation:%s:%d", username, fileID)
}

func (rs *RedisStore) Lookup(ctx context.Context, username string, fileID int64) (*Conversation, error) {
	data, err := rs.redisService.Get(ctx, conversationKey(username, fileID))
	if redis.IsNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var convo Conversation
	if err := json.Unmarshal([]byte(data), &convo); err != nil {
		return nil, fmt.Errorf("unmarshal conversation: %w", err)
	}
	return &convo, nil
}

func (rs *RedisStore) Save(ctx context.Context, username string, convo *Conversation) error {
	data, err := json.Marshal(convo)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	return rs.redisService.Set(ctx, conversationKey(username, convo.FileID), string(data), 0)
}

func (rs *RedisStore) NextID(ctx context.Context) (int64, error) {
	return rs.redisService.Incr(ctx, "conversation:next_id")
}

type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	nextID        int64
}

func newMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*Conversation),
	}
}

func (ms *MemoryStore) Lookup(_ context.Context, username string, fileID int64) (*Conversation, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	convo, exists := ms.conversations[conversationKey(username, fileID)]
	if !exists {
		return nil, nil
	}

	// Copy so handlers never share the stored slice.
	clone := *convo
	clone.Messages = append([]Message(nil), convo.Messages...)
	return &clone, nil
}

func (ms *MemoryStore) Save(_ context.Context, username string, convo *Conversation) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	clone := *convo
	clone.Messages = append([]Message(nil), convo.Messages...)
	ms.conversations[conversationKey(username, convo.FileID)] = &clone
	return nil
}

func (ms *MemoryStore) NextID(_ context.Context) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.nextID++
	return ms.nextID, nil
}
