package types

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var ErrParameterMismatch = errors.New("parameter snapshot does not match model architecture")

// Parameter is one trainable weight matrix of a model together with its
// accumulated gradient. Optimizers mutate Value in place and read Grad.
type Parameter struct {
	Name  string
	Value *mat.Dense
	Grad  *mat.Dense
}

// ParameterValue is the serializable snapshot of a single parameter.
type ParameterValue struct {
	Rows int
	Cols int
	Data []float64
}

// ParameterSnapshot captures the full parameter set of a model, keyed by
// parameter name. Imports are all-or-nothing: a shape mismatch on any entry
// rejects the whole snapshot.
type ParameterSnapshot map[string]ParameterValue

// Model is the Q-value network the agent trains. Two instances are held at
// any time, the policy network receiving gradient updates and a target
// network that is only ever overwritten by parameter copies.
type Model interface {
	// Evaluate computes Q-values for a single state without recording
	// anything needed for a backward pass.
	Evaluate(state []float64) []float64
	// EvaluateBatch is Evaluate over a batch of row-major states.
	EvaluateBatch(states *mat.Dense) *mat.Dense
	// Forward computes Q-values for a batch of states and caches the
	// intermediate activations consumed by Backward.
	Forward(states *mat.Dense) *mat.Dense
	// Backward accumulates parameter gradients given the gradient of the
	// loss with respect to the last Forward output.
	Backward(grad *mat.Dense)
	// Parameters exposes the trainable parameters for an optimizer.
	Parameters() []*Parameter
	ExportParameters() ParameterSnapshot
	ImportParameters(ParameterSnapshot) error
	// CloneIndependent returns a value copy sharing no mutable state with
	// the receiver. Used once per agent to derive the target network.
	CloneIndependent() Model
	// SetTraining toggles between trainable and evaluation-only mode.
	SetTraining(bool)
}

// OptimizerSnapshot is the serializable state of an optimizer: scalar
// hyperparameters and per-parameter moment vectors.
type OptimizerSnapshot struct {
	Scalars map[string]float64
	Vectors map[string][]float64
}

// Optimizer applies accumulated gradients to the parameters of the model it
// was constructed against.
type Optimizer interface {
	Step()
	ClearGradients()
	ExportState() OptimizerSnapshot
	ImportState(OptimizerSnapshot) error
}

// OptimizerConstructor builds an optimizer bound to the parameters of the
// given model. The agent keeps the constructor so a checkpoint load can
// rebuild the optimizer against the restored policy network before
// importing the saved optimizer state.
type OptimizerConstructor func(Model) Optimizer
