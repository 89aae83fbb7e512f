package checkpoint

import (
	"encoding/gob"
	"fmt"
	"os"
	"path"

	"github.com/pointW/rdd-rl/types"
)

// FileStore persists checkpoint artifacts as gob-encoded files in a single
// directory, checkpoint.<tag>.gob for the trainer state and
// memory.<tag>.gob for the replay memory.
type FileStore struct {
	dir string
}

var _ types.Store = &FileStore{}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating checkpoint directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) trainerPath(tag string) string {
	return path.Join(s.dir, "checkpoint."+tag+".gob")
}

func (s *FileStore) memoryPath(tag string) string {
	return path.Join(s.dir, "memory."+tag+".gob")
}

func (s *FileStore) SaveTrainerState(tag string, state *types.TrainerState) error {
	return s.save(s.trainerPath(tag), state)
}

func (s *FileStore) LoadTrainerState(tag string) (*types.TrainerState, error) {
	state := &types.TrainerState{}
	if err := s.load(s.trainerPath(tag), tag, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *FileStore) SaveMemory(tag string, state *types.MemoryState) error {
	return s.save(s.memoryPath(tag), state)
}

func (s *FileStore) LoadMemory(tag string) (*types.MemoryState, error) {
	state := &types.MemoryState{}
	if err := s.load(s.memoryPath(tag), tag, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *FileStore) save(filePath string, v interface{}) error {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(v)
}

func (s *FileStore) load(filePath, tag string, v interface{}) error {
	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", types.ErrCheckpointNotFound, tag)
		}
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}
