package checkpoint

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pointW/rdd-rl/types"
)

// RedisStore keeps checkpoint artifacts in redis, one key per artifact:
// checkpoint:<tag> for the trainer state and memory:<tag> for the replay
// memory. Useful when several training runs on different machines share a
// checkpoint location.
type RedisStore struct {
	client *redis.Client
}

var _ types.Store = &RedisStore{}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func (s *RedisStore) SaveTrainerState(tag string, state *types.TrainerState) error {
	return s.save("checkpoint:"+tag, state)
}

func (s *RedisStore) LoadTrainerState(tag string) (*types.TrainerState, error) {
	state := &types.TrainerState{}
	if err := s.load("checkpoint:"+tag, tag, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *RedisStore) SaveMemory(tag string, state *types.MemoryState) error {
	return s.save("memory:"+tag, state)
}

func (s *RedisStore) LoadMemory(tag string) (*types.MemoryState, error) {
	state := &types.MemoryState{}
	if err := s.load("memory:"+tag, tag, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *RedisStore) save(key string, v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	return s.client.Set(context.Background(), key, buf.Bytes(), 0).Err()
}

func (s *RedisStore) load(key, tag string, v interface{}) error {
	bs, err := s.client.Get(context.Background(), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", types.ErrCheckpointNotFound, tag)
		}
		return err
	}
	return gob.NewDecoder(bytes.NewReader(bs)).Decode(v)
}
