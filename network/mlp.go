package network

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/pointW/rdd-rl/types"
)

// MLP is a fully connected Q-value network with ReLU hidden activations and
// a linear output layer. It implements types.Model: Forward caches the
// activations needed for Backward, Evaluate and EvaluateBatch do not.
type MLP struct {
	sizes    []int
	layers   []*layer
	training bool

	// caches from the last Forward call
	inputs []*mat.Dense
	pres   []*mat.Dense
}

type layer struct {
	weight *types.Parameter // out x in
	bias   *types.Parameter // 1 x out
}

var _ types.Model = &MLP{}

// NewMLP builds a network with the given layer sizes, the first being the
// observation dimension and the last the action count. Weights use uniform
// Xavier initialization from a seeded source, biases start at zero.
func NewMLP(sizes []int, seed int64) *MLP {
	if len(sizes) < 2 {
		panic("an MLP needs at least an input and an output size")
	}
	rng := rand.New(rand.NewSource(seed))
	layers := make([]*layer, len(sizes)-1)
	for l := 0; l < len(sizes)-1; l++ {
		in, out := sizes[l], sizes[l+1]
		limit := math.Sqrt(6.0 / float64(in+out))
		data := make([]float64, out*in)
		for i := range data {
			data[i] = (rng.Float64()*2 - 1) * limit
		}
		layers[l] = &layer{
			weight: &types.Parameter{
				Name:  fmt.Sprintf("w%d", l),
				Value: mat.NewDense(out, in, data),
				Grad:  mat.NewDense(out, in, nil),
			},
			bias: &types.Parameter{
				Name:  fmt.Sprintf("b%d", l),
				Value: mat.NewDense(1, out, nil),
				Grad:  mat.NewDense(1, out, nil),
			},
		}
	}
	return &MLP{
		sizes:  append([]int{}, sizes...),
		layers: layers,
	}
}

func (m *MLP) Evaluate(state []float64) []float64 {
	out := m.EvaluateBatch(mat.NewDense(1, len(state), state))
	return mat.Row(nil, 0, out)
}

func (m *MLP) EvaluateBatch(states *mat.Dense) *mat.Dense {
	out := states
	for l, ly := range m.layers {
		pre := new(mat.Dense)
		pre.Mul(out, ly.weight.Value.T())
		addBiasRow(pre, ly.bias.Value)
		if l < len(m.layers)-1 {
			applyReLU(pre)
		}
		out = pre
	}
	return out
}

func (m *MLP) Forward(states *mat.Dense) *mat.Dense {
	m.inputs = m.inputs[:0]
	m.pres = m.pres[:0]
	out := states
	for l, ly := range m.layers {
		m.inputs = append(m.inputs, mat.DenseCopyOf(out))
		pre := new(mat.Dense)
		pre.Mul(out, ly.weight.Value.T())
		addBiasRow(pre, ly.bias.Value)
		m.pres = append(m.pres, mat.DenseCopyOf(pre))
		if l < len(m.layers)-1 {
			applyReLU(pre)
		}
		out = pre
	}
	return out
}

// Backward accumulates parameter gradients from the gradient of the loss
// with respect to the output of the last Forward call.
func (m *MLP) Backward(grad *mat.Dense) {
	delta := mat.DenseCopyOf(grad)
	for l := len(m.layers) - 1; l >= 0; l-- {
		ly := m.layers[l]

		dW := new(mat.Dense)
		dW.Mul(delta.T(), m.inputs[l])
		ly.weight.Grad.Add(ly.weight.Grad, dW)

		rows, cols := delta.Dims()
		db := mat.NewDense(1, cols, nil)
		for j := 0; j < cols; j++ {
			sum := float64(0)
			for i := 0; i < rows; i++ {
				sum += delta.At(i, j)
			}
			db.Set(0, j, sum)
		}
		ly.bias.Grad.Add(ly.bias.Grad, db)

		if l > 0 {
			dIn := new(mat.Dense)
			dIn.Mul(delta, ly.weight.Value)
			// gate by the derivative of the previous layer's ReLU
			pre := m.pres[l-1]
			r, c := dIn.Dims()
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					if pre.At(i, j) <= 0 {
						dIn.Set(i, j, 0)
					}
				}
			}
			delta = dIn
		}
	}
}

func (m *MLP) Parameters() []*types.Parameter {
	params := make([]*types.Parameter, 0, 2*len(m.layers))
	for _, ly := range m.layers {
		params = append(params, ly.weight, ly.bias)
	}
	return params
}

func (m *MLP) ExportParameters() types.ParameterSnapshot {
	snapshot := make(types.ParameterSnapshot, 2*len(m.layers))
	for _, p := range m.Parameters() {
		r, c := p.Value.Dims()
		data := make([]float64, r*c)
		for i := 0; i < r; i++ {
			mat.Row(data[i*c:(i+1)*c], i, p.Value)
		}
		snapshot[p.Name] = types.ParameterValue{Rows: r, Cols: c, Data: data}
	}
	return snapshot
}

// ImportParameters replaces the full parameter set from a snapshot. The
// import is all-or-nothing: any missing, extra or wrongly shaped entry
// rejects the snapshot without touching the model.
func (m *MLP) ImportParameters(snapshot types.ParameterSnapshot) error {
	params := m.Parameters()
	if len(snapshot) != len(params) {
		return fmt.Errorf("%w: snapshot has %d parameters, model has %d",
			types.ErrParameterMismatch, len(snapshot), len(params))
	}
	for _, p := range params {
		pv, ok := snapshot[p.Name]
		if !ok {
			return fmt.Errorf("%w: missing parameter %s", types.ErrParameterMismatch, p.Name)
		}
		r, c := p.Value.Dims()
		if pv.Rows != r || pv.Cols != c || len(pv.Data) != r*c {
			return fmt.Errorf("%w: parameter %s has shape %dx%d, want %dx%d",
				types.ErrParameterMismatch, p.Name, pv.Rows, pv.Cols, r, c)
		}
	}
	for _, p := range params {
		pv := snapshot[p.Name]
		for i := 0; i < pv.Rows; i++ {
			p.Value.SetRow(i, pv.Data[i*pv.Cols:(i+1)*pv.Cols])
		}
	}
	return nil
}

// CloneIndependent returns a value copy of the network sharing no mutable
// state with the receiver.
func (m *MLP) CloneIndependent() types.Model {
	clone := NewMLP(m.sizes, 0)
	if err := clone.ImportParameters(m.ExportParameters()); err != nil {
		// the clone has the receiver's own architecture
		panic(err)
	}
	clone.training = m.training
	return clone
}

// SetTraining marks the network as trainable or evaluation-only.
// Evaluation-only instances are expected to be driven through Evaluate and
// EvaluateBatch so no activation caches accumulate.
func (m *MLP) SetTraining(training bool) {
	m.training = training
	if !training {
		m.inputs = nil
		m.pres = nil
	}
}

func addBiasRow(dst *mat.Dense, bias *mat.Dense) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, dst.At(i, j)+bias.At(0, j))
		}
	}
}

func applyReLU(dst *mat.Dense) {
	dst.Apply(func(_, _ int, v float64) float64 {
		return math.Max(v, 0)
	}, dst)
}
