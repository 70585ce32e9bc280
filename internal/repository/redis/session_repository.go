package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"partnerlab-agent-be/pkg/session"
)

const defaultPrefix = "partnerlab:session:"

// SessionRepository stores each session as a JSON string with a TTL and
// indexes ids in a sorted set scored by their expiry.
type SessionRepository struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*SessionRepository)

func WithTTL(ttl time.Duration) Option {
	return func(r *SessionRepository) {
		r.ttl = ttl
	}
}

func WithPrefix(prefix string) Option {
	return func(r *SessionRepository) {
		r.prefix = prefix
	}
}

// NewSessionRepository connects using a redis:// URL.
func NewSessionRepository(url string, opts ...Option) (*SessionRepository, error) {
	options, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(options), opts...), nil
}

func NewFromClient(client *backend.Client, opts ...Option) *SessionRepository {
	r := &SessionRepository{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SessionRepository) key(id string) string {
	return r.prefix + id
}

func (r *SessionRepository) indexKey() string {
	return r.prefix + "index"
}

func (r *SessionRepository) Save(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	score := float64(time.Now().Add(r.ttl).Unix())
	if r.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(s.ID), data, r.ttl)
	pipe.ZAdd(ctx, r.indexKey(), backend.Z{Score: score, Member: s.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.ZRem(ctx, r.indexKey(), id)
	_, err := pipe.Exec(ctx)
	return err
}

// List prunes index entries whose key has expired, then returns the rest.
func (r *SessionRepository) List(ctx context.Context) ([]string, error) {
	now := fmt.Sprintf("%d", time.Now().Unix())
	if err := r.client.ZRemRangeByScore(ctx, r.indexKey(), "-inf", now).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune session index: %w", err)
	}

	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return ids, nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *SessionRepository) Close() error {
	return r.client.Close()
}
