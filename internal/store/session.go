package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerufirm/appneruf/internal/domain"
)

const (
	sessionKeyPrefix = "appsheetto:session:"
	// DefaultSessionTTL 共用终端上的职员会话有效期
	DefaultSessionTTL = 24 * time.Hour
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore 职员会话（KV 中保存 JSON，key = 前缀 + uuid）
type SessionStore struct {
	kv  KV
	ttl time.Duration
}

func NewSessionStore(kv KV, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{kv: kv, ttl: ttl}
}

func (s *SessionStore) TTL() time.Duration { return s.ttl }

// Create 新建会话并返回会话 ID
func (s *SessionStore) Create(ctx context.Context, staff domain.StaffSession) (string, error) {
	b, err := json.Marshal(staff)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.kv.Set(ctx, sessionKeyPrefix+id, string(b), s.ttl); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.StaffSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}
	raw, err := s.kv.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var staff domain.StaffSession
	if err := json.Unmarshal([]byte(raw), &staff); err != nil {
		return nil, ErrSessionNotFound
	}
	return &staff, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.kv.Del(ctx, sessionKeyPrefix+id)
}
