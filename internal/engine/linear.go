package engine

import "gonum.org/v1/gonum/mat"

// blockWidth is the number of weights owned by one move action.
const blockWidth = (PatternCount + 1) * neighborhood

// LinearEstimator approximates Q as a dot product between a weight vector and
// binary features: one block of state bits per move action plus a bias.
type LinearEstimator struct {
	alpha   float64
	gamma   float64
	weights *mat.VecDense
}

// FeatureCount is the fixed weight vector length.
func FeatureCount() int {
	return blockWidth*len(MoveActions) + 1
}

func NewLinearEstimator(alpha, gamma float64) *LinearEstimator {
	return &LinearEstimator{
		alpha:   alpha,
		gamma:   gamma,
		weights: mat.NewVecDense(FeatureCount(), nil),
	}
}

// Features returns the full feature vector for (s, a). Only the block of a
// and the trailing bias are non-zero. Non-move actions and Unknown states
// produce the bias alone.
func (l *LinearEstimator) Features(s State, a Action) *mat.VecDense {
	f := mat.NewVecDense(FeatureCount(), nil)
	f.SetVec(f.Len()-1, 1)
	idx := moveIndex(a)
	if idx < 0 {
		return f
	}
	bits := s.Bits()
	base := idx * blockWidth
	for i, b := range bits {
		f.SetVec(base+i, b)
	}
	return f
}

func (l *LinearEstimator) Value(s State, a Action) float64 {
	return mat.Dot(l.weights, l.Features(s, a))
}

// Update moves the weights of prevAction's block and the bias toward the
// Q-learning target. It does nothing when prev is Unknown.
func (l *LinearEstimator) Update(prev State, prevAction Action, reward float64, next State) {
	if !prev.Known() {
		return
	}
	target := reward + l.gamma*l.nextValue(next)
	step := l.alpha * (target - l.Value(prev, prevAction))

	if idx := moveIndex(prevAction); idx >= 0 {
		block := l.weights.SliceVec(idx*blockWidth, (idx+1)*blockWidth).(*mat.VecDense)
		block.AddScaledVec(block, step, mat.NewVecDense(blockWidth, prev.Bits()))
	}
	bias := l.weights.Len() - 1
	l.weights.SetVec(bias, l.weights.AtVec(bias)+step)
}

// nextValue is zero for Unknown: the agent has left the map.
func (l *LinearEstimator) nextValue(next State) float64 {
	if !next.Known() {
		return 0
	}
	return maxMoveValue(l, next)
}

// Weights returns a copy of the weight vector.
func (l *LinearEstimator) Weights() []float64 {
	out := make([]float64, l.weights.Len())
	copy(out, l.weights.RawVector().Data)
	return out
}
