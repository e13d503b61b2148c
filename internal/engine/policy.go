package engine

import (
	"math"
	"math/rand"
	"strings"
)

// declineMarker in a yes/no prompt means the game is warning us off.
const declineMarker = "Beware"

// Policy chooses the action for one turn.
type Policy interface {
	Select(obs *Observation, s State, values ValueEstimator, epoch int) Action
}

// EpsilonSchedule gives the exploration rate for a training epoch.
type EpsilonSchedule interface {
	Epsilon(epoch int) float64
}

// FixedEpsilon explores at the same rate every epoch.
type FixedEpsilon float64

func (f FixedEpsilon) Epsilon(int) float64 {
	return clampFloat(float64(f), 0, 1)
}

// StaircaseEpsilon starts at Max and drops by Delta every Every epochs,
// never below zero.
type StaircaseEpsilon struct {
	Max   float64
	Delta float64
	Every int
}

func (s StaircaseEpsilon) Epsilon(epoch int) float64 {
	every := s.Every
	if every <= 0 {
		every = 1
	}
	if epoch < 0 {
		epoch = 0
	}
	steps := math.Floor(float64(epoch) / float64(every))
	return clampFloat(s.Max-steps*s.Delta, 0, 1)
}

// promptAction answers game prompts, which take priority over moving.
func promptAction(msg Message) (Action, bool) {
	switch {
	case msg.IsMore:
		return ActionMore, true
	case msg.IsYN:
		if strings.Contains(msg.Text, declineMarker) {
			return ActionNo, true
		}
		return ActionYes, true
	}
	return 0, false
}

func randomMove(rng *rand.Rand) Action {
	return MoveActions[rng.Intn(len(MoveActions))]
}

// EpsilonGreedy explores uniformly with probability epsilon and otherwise
// takes a best-valued move, breaking ties uniformly.
type EpsilonGreedy struct {
	rng      *rand.Rand
	schedule EpsilonSchedule
	epsilon  float64
}

func NewEpsilonGreedy(rng *rand.Rand, schedule EpsilonSchedule) *EpsilonGreedy {
	return &EpsilonGreedy{rng: rng, schedule: schedule, epsilon: schedule.Epsilon(0)}
}

func (p *EpsilonGreedy) Select(obs *Observation, s State, values ValueEstimator, epoch int) Action {
	p.epsilon = p.schedule.Epsilon(epoch)
	if act, ok := promptAction(obs.Message); ok {
		return act
	}
	if !s.Known() || p.rng.Float64() < p.epsilon {
		return randomMove(p.rng)
	}
	bestAction := MoveActions[0]
	bestScore := math.Inf(-1)
	countBest := 0
	for _, action := range MoveActions {
		score := values.Value(s, action)
		if score > bestScore {
			bestScore = score
			bestAction = action
			countBest = 1
		} else if score == bestScore {
			countBest++
			if p.rng.Intn(countBest) == 0 {
				bestAction = action
			}
		}
	}
	return bestAction
}

// Epsilon is the rate used by the most recent Select.
func (p *EpsilonGreedy) Epsilon() float64 {
	return p.epsilon
}

// RandomPolicy answers prompts and otherwise moves uniformly at random. It is
// the baseline the learners are compared against.
type RandomPolicy struct {
	rng *rand.Rand
}

func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	return &RandomPolicy{rng: rng}
}

func (p *RandomPolicy) Select(obs *Observation, _ State, _ ValueEstimator, _ int) Action {
	if act, ok := promptAction(obs.Message); ok {
		return act
	}
	return randomMove(p.rng)
}

func (p *RandomPolicy) Epsilon() float64 { return 1 }

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
