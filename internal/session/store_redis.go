package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"concours/pkg/domain"
	"concours/pkg/sentinel"
)

const (
	tokenKeyPrefix     = "concours:session:token:"
	candidateKeyPrefix = "concours:session:candidate:"
)

// RedisStore keeps sessions in Redis with a TTL matching their expiry, so
// expired sessions vanish on their own. FindByToken on an expired session
// therefore reports not-found rather than expired, which callers treat the
// same way. DeleteExpired is a no-op kept for interface parity.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, session Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return sentinel.ErrInvalidState
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, tokenKeyPrefix+session.Token, payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}

	if session.CandidateID != nil {
		key := candidateKeyPrefix + session.CandidateID.String()
		if err := s.client.Set(ctx, key, session.Token, ttl).Err(); err != nil {
			return fmt.Errorf("index session by candidate: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) FindByToken(ctx context.Context, token string) (Session, error) {
	payload, err := s.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

func (s *RedisStore) FindLiveByCandidate(ctx context.Context, candidateID domain.CandidateID) (Session, error) {
	token, err := s.client.Get(ctx, candidateKeyPrefix+candidateID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load candidate session index: %w", err)
	}
	return s.FindByToken(ctx, token)
}

func (s *RedisStore) UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	session, err := s.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	session.ExpiresAt = expiresAt

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(expiresAt)
	if err := s.client.Set(ctx, tokenKeyPrefix+token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("update session expiry: %w", err)
	}
	if session.CandidateID != nil {
		key := candidateKeyPrefix + session.CandidateID.String()
		if err := s.client.Set(ctx, key, token, ttl).Err(); err != nil {
			return fmt.Errorf("update candidate session index: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) DeleteByToken(ctx context.Context, token string) error {
	session, err := s.FindByToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if session.CandidateID != nil {
		if err := s.client.Del(ctx, candidateKeyPrefix+session.CandidateID.String()).Err(); err != nil {
			return fmt.Errorf("delete candidate session index: %w", err)
		}
	}
	return nil
}

// DeleteExpired is handled by Redis key TTLs; nothing to purge here.
func (s *RedisStore) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}
