package evosim

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// HiddenNodes is the default hidden-layer width for a new DecisionNetwork.
const HiddenNodes = 16

// DecisionNetwork is a small feed-forward evaluator (logistic activations,
// argmax-at-decode) over the fixed sensory vector (spec.md §4.5). The
// teacher's neural network (neural_networks.go) models a graph of Neuron
// and Synapse structs keyed by int ids, built for arbitrary topologies
// with runtime learning; that shape doesn't fit the spec's closed
// contract (fixed shape per run, forward/mutate/crossover/clone only, no
// gradient learning), so the architecture here is reworked as two dense
// gonum/mat weight matrices plus bias vectors — the pack's idiom for
// small numeric models (pthm-soup uses gonum/mat and gonum/optimize for
// its own numeric cores).
type DecisionNetwork struct {
	InputSize  int
	HiddenSize int
	OutputSize int

	W1 *mat.Dense // HiddenSize x InputSize
	B1 *mat.Dense // HiddenSize x 1
	W2 *mat.Dense // OutputSize x HiddenSize
	B2 *mat.Dense // OutputSize x 1
}

// NewDecisionNetwork builds a network of the given shape with weights
// drawn from a small Gaussian, using rng for reproducibility.
func NewDecisionNetwork(inputSize, hiddenSize, outputSize int, rng *rand.Rand) *DecisionNetwork {
	n := &DecisionNetwork{InputSize: inputSize, HiddenSize: hiddenSize, OutputSize: outputSize}
	n.W1 = randomDense(hiddenSize, inputSize, rng)
	n.B1 = randomDense(hiddenSize, 1, rng)
	n.W2 = randomDense(outputSize, hiddenSize, rng)
	n.B2 = randomDense(outputSize, 1, rng)
	return n
}

func randomDense(rows, cols int, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64() * 0.5
	}
	return mat.NewDense(rows, cols, data)
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// Forward computes the network's output vector for the given input,
// length OutputSize (spec.md §4.5). Input shorter than InputSize is
// zero-padded; longer is truncated, matching Sense's own padding rule.
func (n *DecisionNetwork) Forward(input []float64) []float64 {
	x := make([]float64, n.InputSize)
	copy(x, input)

	xm := mat.NewDense(n.InputSize, 1, x)

	var h mat.Dense
	h.Mul(n.W1, xm)
	h.Add(&h, n.B1)
	h.Apply(func(_, _ int, v float64) float64 { return sigmoid(v) }, &h)

	var o mat.Dense
	o.Mul(n.W2, &h)
	o.Add(&o, n.B2)
	o.Apply(func(_, _ int, v float64) float64 { return sigmoid(v) }, &o)

	out := make([]float64, n.OutputSize)
	for i := 0; i < n.OutputSize; i++ {
		out[i] = o.At(i, 0)
	}
	return out
}

// Decide maps Forward's output to an ActionKind by argmax.
func (n *DecisionNetwork) Decide(input []float64) ActionKind {
	out := n.Forward(input)
	best, bestIdx := math.Inf(-1), 0
	for i, v := range out {
		if v > best {
			best, bestIdx = v, i
		}
	}
	return ActionKind(bestIdx)
}

// eachMatrix visits every weight/bias matrix of the network, passing it
// to f so the caller can mutate or copy its entries in place.
func (n *DecisionNetwork) eachMatrix(f func(m *mat.Dense)) {
	f(n.W1)
	f(n.B1)
	f(n.W2)
	f(n.B2)
}

// Mutate perturbs each parameter independently with probability rate by
// adding Gaussian noise of standard deviation strength (spec.md §4.5).
func (n *DecisionNetwork) Mutate(rate, strength float64, rng *rand.Rand) {
	n.eachMatrix(func(m *mat.Dense) {
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if rng.Float64() < rate {
					m.Set(i, j, m.At(i, j)+rng.NormFloat64()*strength)
				}
			}
		}
	})
}

// Crossover produces an offspring of identical shape to n and other; for
// each parameter independently, the offspring takes other's value with
// probability p, else n's (spec.md §4.5). Panics if shapes differ — by
// construction every animal's network is built by NewDecisionNetwork with
// the run's fixed shape, so a mismatch would indicate an internal
// invariant violation rather than a recoverable condition.
func (n *DecisionNetwork) Crossover(other *DecisionNetwork, p float64, rng *rand.Rand) *DecisionNetwork {
	if n.InputSize != other.InputSize || n.HiddenSize != other.HiddenSize || n.OutputSize != other.OutputSize {
		panic(ErrInvariantViolated)
	}
	child := &DecisionNetwork{InputSize: n.InputSize, HiddenSize: n.HiddenSize, OutputSize: n.OutputSize}
	child.W1 = crossoverMatrix(n.W1, other.W1, p, rng)
	child.B1 = crossoverMatrix(n.B1, other.B1, p, rng)
	child.W2 = crossoverMatrix(n.W2, other.W2, p, rng)
	child.B2 = crossoverMatrix(n.B2, other.B2, p, rng)
	return child
}

func crossoverMatrix(a, b *mat.Dense, p float64, rng *rand.Rand) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if rng.Float64() < p {
				out.Set(i, j, b.At(i, j))
			} else {
				out.Set(i, j, a.At(i, j))
			}
		}
	}
	return out
}

// Clone produces a structurally identical deep copy sharing no mutable
// state with the origin (spec.md §4.5).
func (n *DecisionNetwork) Clone() *DecisionNetwork {
	clone := &DecisionNetwork{InputSize: n.InputSize, HiddenSize: n.HiddenSize, OutputSize: n.OutputSize}
	clone.W1 = cloneDense(n.W1)
	clone.B1 = cloneDense(n.B1)
	clone.W2 = cloneDense(n.W2)
	clone.B2 = cloneDense(n.B2)
	return clone
}

func cloneDense(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	clone := mat.NewDense(r, c, nil)
	clone.Copy(m)
	return clone
}

// SerializedNetwork is the portable representation used for lossless
// serialize/deserialize round-trips (spec.md §4.5).
type SerializedNetwork struct {
	InputSize  int       `yaml:"input_size" json:"input_size"`
	HiddenSize int       `yaml:"hidden_size" json:"hidden_size"`
	OutputSize int       `yaml:"output_size" json:"output_size"`
	W1         []float64 `yaml:"w1" json:"w1"`
	B1         []float64 `yaml:"b1" json:"b1"`
	W2         []float64 `yaml:"w2" json:"w2"`
	B2         []float64 `yaml:"b2" json:"b2"`
}

// Serialize converts the network to its portable representation.
func (n *DecisionNetwork) Serialize() SerializedNetwork {
	return SerializedNetwork{
		InputSize:  n.InputSize,
		HiddenSize: n.HiddenSize,
		OutputSize: n.OutputSize,
		W1:         denseData(n.W1),
		B1:         denseData(n.B1),
		W2:         denseData(n.W2),
		B2:         denseData(n.B2),
	}
}

func denseData(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[i*c+j] = m.At(i, j)
		}
	}
	return out
}

// DeserializeNetwork reconstructs a DecisionNetwork from its portable
// representation, the inverse of Serialize.
func DeserializeNetwork(s SerializedNetwork) *DecisionNetwork {
	n := &DecisionNetwork{InputSize: s.InputSize, HiddenSize: s.HiddenSize, OutputSize: s.OutputSize}
	n.W1 = mat.NewDense(s.HiddenSize, s.InputSize, append([]float64(nil), s.W1...))
	n.B1 = mat.NewDense(s.HiddenSize, 1, append([]float64(nil), s.B1...))
	n.W2 = mat.NewDense(s.OutputSize, s.HiddenSize, append([]float64(nil), s.W2...))
	n.B2 = mat.NewDense(s.OutputSize, 1, append([]float64(nil), s.B2...))
	return n
}
