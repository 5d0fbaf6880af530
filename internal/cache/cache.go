// Package cache guards against the same person submitting the same answers
// twice in quick succession (double clicks, browser retries). A guard entry
// maps a submission fingerprint to the id of the first stored submission.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Lookup when no submission is recorded for a
// fingerprint.
var ErrMiss = errors.New("cache: miss")

// Guard is the interface the API uses for duplicate detection.
type Guard interface {
	// Lookup returns the submission id recorded for fingerprint, or ErrMiss.
	Lookup(ctx context.Context, fingerprint string) (string, error)
	// Remember records submissionID under fingerprint for the guard's TTL.
	// It returns the id that ends up stored, which differs from submissionID
	// when a concurrent request won the race.
	Remember(ctx context.Context, fingerprint, submissionID string) (string, error)
}

// ─── REDIS ────────────────────────────────────────────────────────────────────

const keyPrefix = "assessment:dedupe:"

type redisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard returns a Guard backed by client.
func NewRedisGuard(client *redis.Client, ttl time.Duration) Guard {
	return &redisGuard{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL. Bare host:port values are accepted
// too.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	if !strings.Contains(rawURL, "://") {
		return redis.NewClient(&redis.Options{Addr: rawURL}), nil
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (g *redisGuard) Lookup(ctx context.Context, fingerprint string) (string, error) {
	id, err := g.client.Get(ctx, keyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("cache: lookup: %w", err)
	}
	return id, nil
}

func (g *redisGuard) Remember(ctx context.Context, fingerprint, submissionID string) (string, error) {
	key := keyPrefix + fingerprint
	ok, err := g.client.SetNX(ctx, key, submissionID, g.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("cache: remember: %w", err)
	}
	if ok {
		return submissionID, nil
	}
	existing, err := g.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET.
		return submissionID, nil
	}
	if err != nil {
		return "", fmt.Errorf("cache: remember: %w", err)
	}
	return existing, nil
}

// ─── NOP ──────────────────────────────────────────────────────────────────────

// Nop never finds a duplicate. It is used when REDIS_URL is unset.
type Nop struct{}

func (Nop) Lookup(context.Context, string) (string, error) { return "", ErrMiss }

func (Nop) Remember(_ context.Context, _ string, submissionID string) (string, error) {
	return submissionID, nil
}
