package types

import (
	"errors"
	"math/rand"
	"testing"
)

func testTransition(id int) Transition {
	return Transition{
		State:     []float64{float64(id)},
		Action:    id,
		NextState: []float64{float64(id + 1)},
		Reward:    float64(id),
	}
}

func TestReplayMemoryEviction(t *testing.T) {
	m := NewReplayMemory(3, rand.New(rand.NewSource(1)))
	for i := 0; i < 5; i++ {
		m.Push(testTransition(i))
	}
	if m.Size() != 3 {
		t.Fatalf("expected size 3 after 5 pushes, got %d", m.Size())
	}
	stored := make(map[int]bool)
	for _, tr := range m.Snapshot().Transitions {
		stored[tr.Action] = true
	}
	for _, want := range []int{2, 3, 4} {
		if !stored[want] {
			t.Errorf("expected transition %d to survive eviction", want)
		}
	}
	if stored[0] || stored[1] {
		t.Errorf("oldest transitions were not evicted first: %v", stored)
	}
}

func TestReplayMemorySizeGrowth(t *testing.T) {
	m := NewReplayMemory(10, rand.New(rand.NewSource(1)))
	for i := 0; i < 7; i++ {
		m.Push(testTransition(i))
		if m.Size() != i+1 {
			t.Errorf("expected size %d after %d pushes, got %d", i+1, i+1, m.Size())
		}
	}
	for i := 0; i < 20; i++ {
		m.Push(testTransition(i))
	}
	if m.Size() != 10 {
		t.Errorf("expected size capped at capacity 10, got %d", m.Size())
	}
}

func TestReplayMemorySampleDistinct(t *testing.T) {
	m := NewReplayMemory(20, rand.New(rand.NewSource(1)))
	for i := 0; i < 20; i++ {
		m.Push(testTransition(i))
	}
	sampled, err := m.Sample(10)
	if err != nil {
		t.Fatalf("unexpected sample error: %v", err)
	}
	if len(sampled) != 10 {
		t.Fatalf("expected 10 sampled transitions, got %d", len(sampled))
	}
	seen := make(map[int]bool)
	for _, tr := range sampled {
		if seen[tr.Action] {
			t.Errorf("transition %d sampled twice", tr.Action)
		}
		seen[tr.Action] = true
	}
}

func TestReplayMemorySampleTooLarge(t *testing.T) {
	m := NewReplayMemory(5, rand.New(rand.NewSource(1)))
	m.Push(testTransition(0))
	if _, err := m.Sample(2); !errors.Is(err, ErrBatchTooLarge) {
		t.Errorf("expected ErrBatchTooLarge, got %v", err)
	}
}

func TestReplayMemoryPushCopies(t *testing.T) {
	m := NewReplayMemory(5, rand.New(rand.NewSource(1)))
	state := []float64{1, 2}
	next := []float64{3, 4}
	m.Push(Transition{State: state, Action: 0, NextState: next, Reward: 1})
	state[0] = 99
	next[0] = 99
	stored := m.Snapshot().Transitions[0]
	if stored.State[0] != 1 || stored.NextState[0] != 3 {
		t.Errorf("stored transition aliases caller memory: %v %v", stored.State, stored.NextState)
	}
}

func TestReplayMemorySnapshotRestore(t *testing.T) {
	m := NewReplayMemory(4, rand.New(rand.NewSource(1)))
	for i := 0; i < 6; i++ {
		m.Push(testTransition(i))
	}
	st := m.Snapshot()

	restored := NewReplayMemory(4, rand.New(rand.NewSource(2)))
	restored.Restore(st)
	if restored.Size() != m.Size() {
		t.Fatalf("restored size %d, want %d", restored.Size(), m.Size())
	}
	// the write position survives, the next push overwrites the oldest entry
	restored.Push(testTransition(6))
	stored := make(map[int]bool)
	for _, tr := range restored.Snapshot().Transitions {
		stored[tr.Action] = true
	}
	if stored[2] {
		t.Errorf("expected oldest transition overwritten after restore, got %v", stored)
	}
}
