package grid

import (
	"fmt"

	"github.com/pointW/rdd-rl/types"
)

// Actions of the grid environment.
const (
	ActionUp = iota
	ActionDown
	ActionLeft
	ActionRight
	actionCount
)

// Environment is a discrete grid world. The agent starts at the top-left
// corner and receives GoalReward on reaching the goal cell, which ends the
// episode; every other step costs StepPenalty. Moves over the border leave
// the position unchanged.
type Environment struct {
	Height      int
	Width       int
	Goal        Position
	GoalReward  float64
	StepPenalty float64

	pos Position
}

type Position struct {
	I int
	J int
}

func (p Position) Eq(other Position) bool {
	return p.I == other.I && p.J == other.J
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.I, p.J)
}

var _ types.Environment = &Environment{}

// New creates a height x width grid with the goal in the bottom-right
// corner, a goal reward of 1 and a step penalty of 0.01.
func New(height, width int) *Environment {
	return &Environment{
		Height:      height,
		Width:       width,
		Goal:        Position{I: height - 1, J: width - 1},
		GoalReward:  1,
		StepPenalty: 0.01,
	}
}

func (g *Environment) Reset() []float64 {
	g.pos = Position{0, 0}
	return g.observation()
}

func (g *Environment) Step(action int) ([]float64, float64, bool, map[string]string) {
	next := g.pos
	switch action {
	case ActionUp:
		next.I = max(0, g.pos.I-1)
	case ActionDown:
		next.I = min(g.Height-1, g.pos.I+1)
	case ActionLeft:
		next.J = max(0, g.pos.J-1)
	case ActionRight:
		next.J = min(g.Width-1, g.pos.J+1)
	}
	g.pos = next

	info := map[string]string{"position": g.pos.String()}
	if g.pos.Eq(g.Goal) {
		return g.observation(), g.GoalReward, true, info
	}
	return g.observation(), -g.StepPenalty, false, info
}

func (g *Environment) ActionCount() int {
	return actionCount
}

// observation encodes the position as coordinates normalized to [0,1].
func (g *Environment) observation() []float64 {
	obs := make([]float64, 2)
	if g.Height > 1 {
		obs[0] = float64(g.pos.I) / float64(g.Height-1)
	}
	if g.Width > 1 {
		obs[1] = float64(g.pos.J) / float64(g.Width-1)
	}
	return obs
}

// ObservationSize is the length of the observation vector.
func (g *Environment) ObservationSize() int {
	return 2
}
