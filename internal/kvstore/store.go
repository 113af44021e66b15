// Package kvstore adapts redis into the string-keyed, JSON-valued store the
// session layer builds on: per-key expiration, glob search, pattern delete.
// Operations are single-key atomic only; multi-key consistency is the
// caller's concern.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrKeyNotFound = errors.New("key does not exist")

type Store struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Get returns the decoded value for key. The second return reports whether
// the key existed.
func (s *Store) Get(ctx context.Context, key string) (map[string]any, bool, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var value map[string]any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set JSON-serializes value under key. A zero ttl stores the key without
// expiration.
func (s *Store) Set(ctx context.Context, key string, value map[string]any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return err
	}
	if ttl > 0 {
		return s.client.Expire(ctx, key, ttl).Err()
	}
	return nil
}

func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search scans keys matching pattern and returns their decoded values.
// Keys whose value is missing, undecodable or empty are skipped silently.
func (s *Store) Search(ctx context.Context, pattern string) ([]map[string]any, error) {
	var matched []map[string]any
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		value, ok, err := s.Get(ctx, iter.Val())
		if err != nil || !ok || len(value) == 0 {
			continue
		}
		matched = append(matched, value)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return matched, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// DeletePattern deletes every key matching pattern, except keys containing
// excludeSubstring when it is non-empty.
func (s *Store) DeletePattern(ctx context.Context, pattern, excludeSubstring string) error {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if excludeSubstring != "" && strings.Contains(key, excludeSubstring) {
			continue
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return err
		}
	}
	return nil
}

// ResetExpiration reapplies a ttl to an existing key.
func (s *Store) ResetExpiration(ctx context.Context, key string, ttl time.Duration) error {
	exists, err := s.Has(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrKeyNotFound
	}
	return s.client.Expire(ctx, key, ttl).Err()
}
