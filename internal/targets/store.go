package targets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/unitflow/unitflow/internal/shared"
)

// DefaultKey is the Redis hash holding every target.
const DefaultKey = "unitflow_targets"

// Store keeps targets as JSON values in one Redis hash keyed by target id.
type Store struct {
	client *redis.Client
	key    string
}

// NewStore constructs Store. An empty key falls back to DefaultKey.
func NewStore(client *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

// List returns targets ordered by deadline, then creation time.
func (s *Store) List(ctx context.Context) ([]Target, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Target, 0, len(raw))
	for field, value := range raw {
		var t Target
		if err := json.Unmarshal([]byte(value), &t); err != nil {
			return nil, fmt.Errorf("decode target %s: %w", field, err)
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Deadline.Equal(out[j].Deadline) {
			return out[i].Deadline.Before(out[j].Deadline)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (Target, error) {
	value, err := s.client.HGet(ctx, s.key, id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return Target{}, fmt.Errorf("target %w", shared.ErrNotFound)
	}
	if err != nil {
		return Target{}, err
	}
	var t Target
	if err := json.Unmarshal(value, &t); err != nil {
		return Target{}, fmt.Errorf("decode target %s: %w", id, err)
	}
	return t, nil
}

// Save inserts or replaces a target.
func (s *Store) Save(ctx context.Context, t Target) error {
	value, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, s.key, t.ID.String(), value).Err()
}

// replaceScript writes the field only when it already exists, so an update
// racing a delete cannot recreate the target.
var replaceScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// Replace overwrites an existing target, returning ErrNotFound when it is gone.
func (s *Store) Replace(ctx context.Context, t Target) error {
	value, err := json.Marshal(t)
	if err != nil {
		return err
	}
	n, err := replaceScript.Run(ctx, s.client, []string{s.key}, t.ID.String(), value).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("target %w", shared.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.client.HDel(ctx, s.key, id.String()).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("target %w", shared.ErrNotFound)
	}
	return nil
}
