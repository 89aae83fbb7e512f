package exploration

import (
	"math"

	"github.com/pointW/rdd-rl/types"
)

// LinearDecay anneals epsilon linearly from Start to End over Steps steps
// and stays at End afterwards.
type LinearDecay struct {
	Start float64
	End   float64
	Steps int
}

var _ types.Schedule = &LinearDecay{}

func (l *LinearDecay) Value(step int) float64 {
	if step >= l.Steps {
		return l.End
	}
	frac := float64(step) / float64(l.Steps)
	return l.Start + (l.End-l.Start)*frac
}

// ExponentialDecay anneals epsilon from Start towards End with time
// constant Decay, epsilon(step) = End + (Start-End)*exp(-step/Decay).
type ExponentialDecay struct {
	Start float64
	End   float64
	Decay float64
}

var _ types.Schedule = &ExponentialDecay{}

func (e *ExponentialDecay) Value(step int) float64 {
	return e.End + (e.Start-e.End)*math.Exp(-float64(step)/e.Decay)
}

// Constant keeps epsilon fixed for every step.
type Constant float64

var _ types.Schedule = Constant(0)

func (c Constant) Value(int) float64 {
	return float64(c)
}
