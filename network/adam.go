package network

import (
	"fmt"
	"math"

	"github.com/pointW/rdd-rl/types"
)

// DefaultLearningRate is the learning rate used when no override is given.
const DefaultLearningRate = 1e-4

// Adam applies the Adam update rule to the parameters of the model it was
// constructed against. It implements types.Optimizer.
type Adam struct {
	params       []*types.Parameter
	learningRate float64
	beta1        float64
	beta2        float64
	epsilon      float64
	steps        int

	// first and second moment estimates, flattened row-major per parameter
	m map[string][]float64
	v map[string][]float64
}

var _ types.Optimizer = &Adam{}

func NewAdam(model types.Model, learningRate float64) *Adam {
	params := model.Parameters()
	a := &Adam{
		params:       params,
		learningRate: learningRate,
		beta1:        0.9,
		beta2:        0.999,
		epsilon:      1e-8,
		m:            make(map[string][]float64, len(params)),
		v:            make(map[string][]float64, len(params)),
	}
	for _, p := range params {
		r, c := p.Value.Dims()
		a.m[p.Name] = make([]float64, r*c)
		a.v[p.Name] = make([]float64, r*c)
	}
	return a
}

// DefaultOptimizer builds an Adam optimizer with the default learning rate.
// It satisfies types.OptimizerConstructor.
func DefaultOptimizer(model types.Model) types.Optimizer {
	return NewAdam(model, DefaultLearningRate)
}

// Step applies one Adam update using the gradients accumulated since the
// last ClearGradients call.
func (a *Adam) Step() {
	a.steps++
	c1 := 1 - math.Pow(a.beta1, float64(a.steps))
	c2 := 1 - math.Pow(a.beta2, float64(a.steps))
	for _, p := range a.params {
		r, c := p.Value.Dims()
		mom := a.m[p.Name]
		vel := a.v[p.Name]
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				k := i*c + j
				g := p.Grad.At(i, j)
				mom[k] = a.beta1*mom[k] + (1-a.beta1)*g
				vel[k] = a.beta2*vel[k] + (1-a.beta2)*g*g
				mHat := mom[k] / c1
				vHat := vel[k] / c2
				p.Value.Set(i, j, p.Value.At(i, j)-a.learningRate*mHat/(math.Sqrt(vHat)+a.epsilon))
			}
		}
	}
}

func (a *Adam) ClearGradients() {
	for _, p := range a.params {
		p.Grad.Zero()
	}
}

func (a *Adam) ExportState() types.OptimizerSnapshot {
	snapshot := types.OptimizerSnapshot{
		Scalars: map[string]float64{
			"learning_rate": a.learningRate,
			"beta1":         a.beta1,
			"beta2":         a.beta2,
			"epsilon":       a.epsilon,
			"steps":         float64(a.steps),
		},
		Vectors: make(map[string][]float64, 2*len(a.params)),
	}
	for name, mom := range a.m {
		snapshot.Vectors["m."+name] = append([]float64{}, mom...)
	}
	for name, vel := range a.v {
		snapshot.Vectors["v."+name] = append([]float64{}, vel...)
	}
	return snapshot
}

// ImportState restores a saved optimizer state. The saved scalars overwrite
// whatever the optimizer was constructed with, so a restored learning rate
// wins over the constructor default. Moment vectors must match the bound
// parameters exactly.
func (a *Adam) ImportState(snapshot types.OptimizerSnapshot) error {
	for _, p := range a.params {
		r, c := p.Value.Dims()
		for _, prefix := range []string{"m.", "v."} {
			vec, ok := snapshot.Vectors[prefix+p.Name]
			if !ok {
				return fmt.Errorf("%w: missing moments for %s", types.ErrParameterMismatch, p.Name)
			}
			if len(vec) != r*c {
				return fmt.Errorf("%w: moments for %s have %d entries, want %d",
					types.ErrParameterMismatch, p.Name, len(vec), r*c)
			}
		}
	}
	if lr, ok := snapshot.Scalars["learning_rate"]; ok {
		a.learningRate = lr
	}
	if b, ok := snapshot.Scalars["beta1"]; ok {
		a.beta1 = b
	}
	if b, ok := snapshot.Scalars["beta2"]; ok {
		a.beta2 = b
	}
	if e, ok := snapshot.Scalars["epsilon"]; ok {
		a.epsilon = e
	}
	if s, ok := snapshot.Scalars["steps"]; ok {
		a.steps = int(s)
	}
	for _, p := range a.params {
		copy(a.m[p.Name], snapshot.Vectors["m."+p.Name])
		copy(a.v[p.Name], snapshot.Vectors["v."+p.Name])
	}
	return nil
}

// LearningRate reports the current learning rate.
func (a *Adam) LearningRate() float64 {
	return a.learningRate
}
