package types

import (
	"errors"
	"fmt"
	"math/rand"
)

// Transition records a single environment step.
// NextState is nil exactly when the step ended the episode.
// Fields are never mutated after the transition is stored.
type Transition struct {
	State     []float64
	Action    int
	NextState []float64
	Reward    float64
}

// IsTerminal reports whether the transition ended its episode
func (t Transition) IsTerminal() bool {
	return t.NextState == nil
}

var ErrBatchTooLarge = errors.New("batch size exceeds stored transitions")

// ReplayMemory is a fixed-capacity ring buffer of transitions.
// Once full, the oldest transition is overwritten first.
// Not safe for concurrent use, the agent is the only reader and writer.
type ReplayMemory struct {
	capacity int
	memory   []Transition
	position int
	rng      *rand.Rand
}

// NewReplayMemory creates a replay memory holding at most capacity transitions.
// Panics if capacity < 1.
func NewReplayMemory(capacity int, rng *rand.Rand) *ReplayMemory {
	if capacity < 1 {
		panic(fmt.Sprintf("replay memory capacity must be positive, got %d", capacity))
	}
	return &ReplayMemory{
		capacity: capacity,
		memory:   make([]Transition, 0, capacity),
		position: 0,
		rng:      rng,
	}
}

// Push stores a transition at the current write position, wrapping around
// once the capacity is reached. The state vectors are copied so the buffer
// never aliases scratch memory reused by the caller.
func (m *ReplayMemory) Push(t Transition) {
	t.State = cloneVector(t.State)
	t.NextState = cloneVector(t.NextState)
	if len(m.memory) < m.capacity {
		m.memory = append(m.memory, Transition{})
	}
	m.memory[m.position] = t
	m.position = (m.position + 1) % m.capacity
}

// Sample returns batchSize transitions drawn uniformly without replacement
// from the current contents. Asking for more transitions than are stored is
// a caller error and returns ErrBatchTooLarge.
func (m *ReplayMemory) Sample(batchSize int) ([]Transition, error) {
	if batchSize > len(m.memory) {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, batchSize, len(m.memory))
	}
	sampled := make([]Transition, batchSize)
	for i, j := range m.rng.Perm(len(m.memory))[:batchSize] {
		sampled[i] = m.memory[j]
	}
	return sampled, nil
}

// Size returns the number of transitions currently stored.
func (m *ReplayMemory) Size() int {
	return len(m.memory)
}

// Capacity returns the maximum number of transitions the memory can hold.
func (m *ReplayMemory) Capacity() int {
	return m.capacity
}

// Snapshot copies the full buffer contents into a serializable record.
func (m *ReplayMemory) Snapshot() *MemoryState {
	st := &MemoryState{
		Capacity:    m.capacity,
		Position:    m.position,
		Transitions: make([]Transition, len(m.memory)),
	}
	copy(st.Transitions, m.memory)
	return st
}

// Restore replaces the buffer contents with a previously saved record.
func (m *ReplayMemory) Restore(st *MemoryState) {
	m.capacity = st.Capacity
	m.position = st.Position
	m.memory = make([]Transition, len(st.Transitions))
	copy(m.memory, st.Transitions)
}

func cloneVector(v []float64) []float64 {
	if v == nil {
		return nil
	}
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
