package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session-not-found")

// Session is the server-side state referenced by the sid cookie.
type Session struct {
	PlayerID   int64  `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// RedisStore keeps browser sessions in Redis under "sess:<sid>" keys with a
// sliding TTL, so a restart of the server does not log every player out.
type RedisStore struct {
	client *redis.Client
	maxAge time.Duration
}

func NewRedisStore(addr, password string, db int, maxAge time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client, maxAge: maxAge}, nil
}

func (s *RedisStore) key(sid string) string {
	return "sess:" + sid
}

// Create stores the session and returns a fresh sid for the cookie.
func (s *RedisStore) Create(ctx context.Context, sess Session) (string, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}

	sid := uuid.NewString()
	if err := s.client.Set(ctx, s.key(sid), data, s.maxAge).Err(); err != nil {
		return "", fmt.Errorf("redis set: %w", err)
	}

	return sid, nil
}

// Get loads a session and renews its TTL.
func (s *RedisStore) Get(ctx context.Context, sid string) (Session, error) {
	data, err := s.client.Get(ctx, s.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, err
	}

	s.client.Expire(ctx, s.key(sid), s.maxAge)

	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
