package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

const keyPrefix = "interviewer:"

func sessionKey(id string) string   { return keyPrefix + "session:" + id }
func scorecardKey(id string) string { return keyPrefix + "scorecard:" + id }
func sessionIndexKey() string       { return keyPrefix + "sessions" }

// RedisStore keeps sessions as JSON strings that expire after TTL of inactivity.
// A set indexes live session ids; ids whose blob has expired are pruned on list.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// OpenRedis connects to addr and verifies it with PING.
func OpenRedis(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, ttl), nil
}

// NewRedisStore wraps an existing client. A zero ttl keeps keys forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func (r *RedisStore) SaveSession(ctx context.Context, s state.SessionState) error {
	data, err := encodeSession(s, r.now())
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(s.ID), data, r.ttl)
		pipe.SAdd(ctx, sessionIndexKey(), s.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *RedisStore) LoadSession(ctx context.Context, id string) (state.SessionState, error) {
	data, err := r.get(ctx, sessionKey(id))
	if err != nil {
		return state.SessionState{}, fmt.Errorf("session %s: %w", id, err)
	}
	return decodeSession(data)
}

func (r *RedisStore) SaveScorecard(ctx context.Context, card scorecard.Scorecard) error {
	data, err := encodeScorecard(card)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, scorecardKey(card.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save scorecard: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadScorecard(ctx context.Context, id string) (scorecard.Scorecard, error) {
	data, err := r.get(ctx, scorecardKey(id))
	if err != nil {
		return scorecard.Scorecard{}, fmt.Errorf("scorecard %s: %w", id, err)
	}
	return decodeScorecard(data)
}

func (r *RedisStore) ListSessions(ctx context.Context) ([]string, error) {
	members, err := r.client.SMembers(ctx, sessionIndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	ids := make([]string, 0, len(members))
	for _, id := range members {
		n, err := r.client.Exists(ctx, sessionKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("check session %s: %w", id, err)
		}
		if n == 0 {
			r.client.SRem(ctx, sessionIndexKey(), id)
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
