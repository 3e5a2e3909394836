package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrDraftNotFound = errors.New("wizard draft not found")

// Store keeps one draft per business between requests.
type Store interface {
	Load(ctx context.Context, businessID uuid.UUID) (*Draft, error)
	Save(ctx context.Context, draft *Draft) error
	Delete(ctx context.Context, businessID uuid.UUID) error
}

const keyPrefix = "menu_setup_wizard:"

func draftKey(businessID uuid.UUID) string {
	return keyPrefix + businessID.String()
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, businessID uuid.UUID) (*Draft, error) {
	data, err := s.client.Get(ctx, draftKey(businessID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		logger.Error("Failed to load wizard draft", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("corrupt wizard draft: %w", err)
	}
	return &draft, nil
}

// Save writes the draft and restarts its TTL.
func (s *RedisStore) Save(ctx context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, draftKey(draft.BusinessID), data, s.ttl).Err(); err != nil {
		logger.Error("Failed to save wizard draft", err, map[string]interface{}{
			"business_id": draft.BusinessID,
		})
		return err
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, businessID uuid.UUID) error {
	return s.client.Del(ctx, draftKey(businessID)).Err()
}

// MemoryStore is used when redis is not configured. Drafts are lost on
// restart and are not shared between instances.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[uuid.UUID]memoryEntry
	now    func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		drafts: make(map[uuid.UUID]memoryEntry),
		now:    time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, businessID uuid.UUID) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.drafts[businessID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.drafts, businessID)
		return nil, ErrDraftNotFound
	}

	// stored as JSON so callers never share memory with the store
	var draft Draft
	if err := json.Unmarshal(entry.data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *MemoryStore) Save(_ context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.BusinessID] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, businessID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, businessID)
	return nil
}
