package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix is the Redis key prefix for session data.
const sessionKeyPrefix = "session:"

// sessionTokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const sessionTokenBytes = 32

// SessionStore persists Session blobs in Redis keyed by the cookie token.
// Every write refreshes the TTL, so a session expires only after the client
// has been idle for the full TTL.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewSessionStore creates a session store with the given Redis client and TTL.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: rdb, ttl: ttl}
}

// Get loads the session for a token. A missing or expired entry returns
// (nil, nil): the caller treats that as an anonymous session.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session from redis: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}

	return &session, nil
}

// Put stores the session under the token, resetting the TTL.
func (s *SessionStore) Put(ctx context.Context, token string, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKeyPrefix+token, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing session in redis: %w", err)
	}

	return nil
}

// Delete removes the session, returning the client to the anonymous state.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("deleting session from redis: %w", err)
	}
	return nil
}

// GenerateToken creates a cryptographically random hex-encoded session token.
func GenerateToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
