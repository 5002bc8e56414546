package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// AdminSessionDuration is 7 days
	AdminSessionDuration = 7 * 24 * time.Hour
	// AdminSessionKeyPrefix is the Redis key prefix for admin sessions
	AdminSessionKeyPrefix = "admin_session:"
	// AdminToSessionKeyPrefix is the Redis key prefix for admin->session mapping
	AdminToSessionKeyPrefix = "admin_to_session:"
)

// SessionStore issues and checks opaque admin tokens. An admin holds at most
// one live token: creating a new one invalidates the previous one.
type SessionStore interface {
	Create(ctx context.Context, adminID uuid.UUID) (string, error)
	// Validate returns ok=false for unknown or expired tokens.
	Validate(ctx context.Context, token string) (adminID uuid.UUID, ok bool, err error)
	Invalidate(ctx context.Context, token string) error
}

func newSessionToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(tokenBytes), nil
}

// RedisSessionStore keeps tokens in Redis with a TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSessionStore(client *redis.Client, logger *zap.Logger) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: AdminSessionDuration, logger: logger}
}

func (s *RedisSessionStore) Create(ctx context.Context, adminID uuid.UUID) (string, error) {
	// Reset the 7-day timer on every login. No new token is issued while
	// the previous one may still be live.
	if err := s.invalidateAdmin(ctx, adminID); err != nil {
		s.logger.Warn("failed to invalidate previous admin session",
			zap.String("admin_id", adminID.String()), zap.Error(err))
		return "", err
	}

	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, AdminSessionKeyPrefix+token, adminID.String(), s.ttl)
	pipe.Set(ctx, AdminToSessionKeyPrefix+adminID.String(), token, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessionStore) Validate(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" {
		return uuid.Nil, false, nil
	}

	adminIDStr, err := s.client.Get(ctx, AdminSessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	adminID, err := uuid.Parse(adminIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}
	return adminID, true, nil
}

func (s *RedisSessionStore) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sessionKey := AdminSessionKeyPrefix + token

	adminIDStr, err := s.client.Get(ctx, sessionKey).Result()
	if err == nil && adminIDStr != "" {
		_ = s.client.Del(ctx, AdminToSessionKeyPrefix+adminIDStr).Err()
	}
	return s.client.Del(ctx, sessionKey).Err()
}

func (s *RedisSessionStore) invalidateAdmin(ctx context.Context, adminID uuid.UUID) error {
	adminToSessionKey := AdminToSessionKeyPrefix + adminID.String()

	token, err := s.client.Get(ctx, adminToSessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if token != "" {
		if err := s.client.Del(ctx, AdminSessionKeyPrefix+token).Err(); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, adminToSessionKey).Err()
}

type memorySession struct {
	adminID   uuid.UUID
	expiresAt time.Time
}

// MemorySessionStore is the SessionStore used when no Redis is configured.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memorySession
	byAdmin  map[uuid.UUID]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      AdminSessionDuration,
		now:      time.Now,
		sessions: make(map[string]memorySession),
		byAdmin:  make(map[uuid.UUID]string),
	}
}

func (s *MemorySessionStore) Create(_ context.Context, adminID uuid.UUID) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byAdmin[adminID]; ok {
		delete(s.sessions, old)
	}
	s.sessions[token] = memorySession{adminID: adminID, expiresAt: s.now().Add(s.ttl)}
	s.byAdmin[adminID] = token
	return token, nil
}

func (s *MemorySessionStore) Validate(_ context.Context, token string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return uuid.Nil, false, nil
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, token)
		delete(s.byAdmin, sess.adminID)
		return uuid.Nil, false, nil
	}
	return sess.adminID, true, nil
}

func (s *MemorySessionStore) Invalidate(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[token]; ok {
		delete(s.byAdmin, sess.adminID)
		delete(s.sessions, token)
	}
	return nil
}
