package engine

import "math"

// ValueEstimator scores state-action pairs and learns from one transition
// at a time.
type ValueEstimator interface {
	Value(s State, a Action) float64
	Update(prev State, prevAction Action, reward float64, next State)
}

// maxMoveValue is the best estimate over MoveActions at s.
func maxMoveValue(v ValueEstimator, s State) float64 {
	best := math.Inf(-1)
	for _, a := range MoveActions {
		if q := v.Value(s, a); q > best {
			best = q
		}
	}
	return best
}

type qKey struct {
	state  State
	action Action
}

// QTable is the tabular estimator: a sparse map from state-action pairs to
// values with zero for unseen pairs.
type QTable struct {
	alpha  float64
	gamma  float64
	data   map[qKey]float64
	visits map[qKey]int
}

func NewQTable(alpha, gamma float64) *QTable {
	return &QTable{
		alpha:  alpha,
		gamma:  gamma,
		data:   make(map[qKey]float64),
		visits: make(map[qKey]int),
	}
}

func (q *QTable) Value(s State, a Action) float64 {
	return q.data[qKey{state: s, action: a}]
}

func (q *QTable) set(s State, a Action, value float64) {
	q.data[qKey{state: s, action: a}] = value
}

// Update applies one Q-learning step to (prev, prevAction). It does nothing
// when prev is Unknown.
func (q *QTable) Update(prev State, prevAction Action, reward float64, next State) {
	if !prev.Known() {
		return
	}
	key := qKey{state: prev, action: prevAction}
	q.visits[key]++
	current := q.data[key]
	target := reward + q.gamma*maxMoveValue(q, next)
	q.data[key] = (1-q.alpha)*current + q.alpha*target
}

// Visits returns how many updates (s, a) has received.
func (q *QTable) Visits(s State, a Action) int {
	return q.visits[qKey{state: s, action: a}]
}

// Len is the number of stored state-action values.
func (q *QTable) Len() int {
	return len(q.data)
}
