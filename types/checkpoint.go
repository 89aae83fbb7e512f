package types

import "errors"

var ErrCheckpointNotFound = errors.New("checkpoint not found")

// CheckpointTagFormat is the layout of checkpoint tags. Nanosecond
// resolution keeps two saves in the same second from colliding.
const CheckpointTagFormat = "20060102150405.000000000"

// TrainerState is the trainer-side checkpoint artifact: counters, parameter
// snapshots of both networks, the optimizer state and the full episode
// statistics history.
type TrainerState struct {
	EpisodesDone     int
	StepsDone        int
	PolicyParameters ParameterSnapshot
	TargetParameters ParameterSnapshot
	OptimizerState   OptimizerSnapshot
	EpisodeRewards   []float64
	EpisodeLengths   []int
}

// MemoryState is the replay-memory checkpoint artifact.
type MemoryState struct {
	Capacity    int
	Position    int
	Transitions []Transition
}

// Store persists the two checkpoint artifacts, both keyed by the same tag.
// Loading a tag that was never saved returns an error wrapping
// ErrCheckpointNotFound.
type Store interface {
	SaveTrainerState(tag string, state *TrainerState) error
	LoadTrainerState(tag string) (*TrainerState, error)
	SaveMemory(tag string, state *MemoryState) error
	LoadMemory(tag string) (*MemoryState, error)
}
