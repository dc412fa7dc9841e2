package service

import (
	"context"
	"encoding/json"
	"factfake_backend/internal/model"
	"factfake_backend/internal/util"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// CollectionSession 绑定一批抽取的题目与请求它的用户的短命句柄。
// 非持久化：进程崩溃丢失未提交的会话，这是有意的取舍。
type CollectionSession struct {
	ID          string               `json:"id"`
	UserID      uint                 `json:"userId"`
	Type        model.CollectionType `json:"type"`
	ReferenceID uint                 `json:"referenceId"`
	Difficulty  int                  `json:"difficulty,omitempty"`
	QuestionIDs []uint               `json:"questionIds"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// SessionStore 键值会话存储。调用方不感知后端：
// 单进程用内存实现，多实例部署换 Redis 实现，
// TTL、归属校验和单次消费语义保持一致。
type SessionStore interface {
	Create(ctx context.Context, session *CollectionSession) error
	Get(ctx context.Context, id string) (*CollectionSession, error)
	Delete(ctx context.Context, id string) error
	Sweep(ctx context.Context) (int, error)
}

// MemorySessionStore 进程内会话存储
type MemorySessionStore struct {
	ttl      time.Duration
	mu       sync.Mutex
	sessions map[string]*CollectionSession
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]*CollectionSession),
	}
}

func (s *MemorySessionStore) Create(ctx context.Context, session *CollectionSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*CollectionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	// 过期即视为不存在，顺手删除
	if time.Since(session.CreatedAt) > s.ttl {
		delete(s.sessions, id)
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Sweep 清理超过 TTL 的会话，返回清理数量
func (s *MemorySessionStore) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	swept := 0
	for id, session := range s.sessions {
		if time.Since(session.CreatedAt) > s.ttl {
			delete(s.sessions, id)
			swept++
		}
	}
	return swept, nil
}

const sessionKeyPrefix = "collection:session:"

// RedisSessionStore 跨实例共享的会话存储，过期由 Redis 键 TTL 承担
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Create(ctx context.Context, session *CollectionSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.ID, payload, s.ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*CollectionSession, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session CollectionSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// Sweep Redis 下过期交给键 TTL，无需主动清理
func (s *RedisSessionStore) Sweep(ctx context.Context) (int, error) {
	return 0, nil
}
