package engine

import (
	"fmt"
	"strings"
)

// Mode is the driver's phase, shown in status reports.
type Mode int

const (
	ModeTrain Mode = iota
	ModeEvaluate
)

func (m Mode) String() string {
	if m == ModeEvaluate {
		return "TEST"
	}
	return "TRAIN"
}

// Run is the driver-owned context of a decision.
type Run struct {
	Mode  Mode
	Epoch int
}

// Agent ties an encoder, an estimator, a policy and a reward shaper into one
// decision per game turn. Learning lags by one call: the reward and next
// state of an action are only known on the following turn.
type Agent struct {
	encoder *StateEncoder
	shaper  RewardShaper
	values  ValueEstimator
	policy  Policy
	history VisitHistory

	prevState  State
	prevAction Action
	hasAction  bool
	prevReward float64
	prevDepth  Depth
	run        Run
}

func NewAgent(values ValueEstimator, policy Policy, shaper RewardShaper) *Agent {
	return &Agent{
		encoder: NewStateEncoder(),
		shaper:  shaper,
		values:  values,
		policy:  policy,
	}
}

// Act consumes one observation and returns the action to send.
func (a *Agent) Act(run Run, obs *Observation) Action {
	a.run = run
	pos, found := FindSelf(obs.Map)
	state := a.encoder.Encode(obs.Map, &a.history)
	if a.hasAction {
		a.values.Update(a.prevState, a.prevAction, a.prevReward, state)
	}
	action := a.policy.Select(obs, state, a.values, run.Epoch)
	reward := a.shaper.Shape(ShapeInput{
		Raw:         obs.Reward,
		Position:    pos,
		HasPosition: found,
		Depth:       obs.Depth,
		PriorDepth:  a.prevDepth,
		Discovered:  a.encoder.TakeDiscovered(),
	}, &a.history)

	if found {
		a.history.Append(pos)
	}
	a.prevState = state
	a.prevAction = action
	a.hasAction = true
	a.prevReward = reward
	a.prevDepth = obs.Depth
	return action
}

// Reset forgets the episode but keeps what has been learned.
func (a *Agent) Reset() {
	a.encoder.Reset()
	a.history.Reset()
	a.prevState = Unknown
	a.prevAction = 0
	a.hasAction = false
	a.prevReward = 0
	a.prevDepth = Depth{}
}

// LastState is the state encoded on the most recent call.
func (a *Agent) LastState() State { return a.prevState }

// LastAction is the action returned by the most recent call.
func (a *Agent) LastAction() (Action, bool) { return a.prevAction, a.hasAction }

// LastReward is the shaped reward that will be credited to LastAction.
func (a *Agent) LastReward() float64 { return a.prevReward }

func (a *Agent) History() *VisitHistory { return &a.history }

func (a *Agent) Values() ValueEstimator { return a.values }

// Status formats a multi-line diagnostic report.
func (a *Agent) Status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\tEP:%d", a.run.Mode, a.run.Epoch)
	if a.hasAction && a.prevState.Known() {
		fmt.Fprintf(&b, "\tQ:%.3f\tR:%.3f\n\tST:%s",
			a.values.Value(a.prevState, a.prevAction), a.prevReward, a.prevState)
	}
	b.WriteString("\n")
	if g, ok := a.encoder.Beneath(); ok {
		fmt.Fprintf(&b, "\tBN:%c", g)
	}
	if a.hasAction {
		fmt.Fprintf(&b, "\t%s", a.prevAction)
	}
	b.WriteString("\n")
	if a.prevState.Known() {
		for _, act := range MoveActions {
			fmt.Fprintf(&b, "\n\t%s:%.3f", act, a.values.Value(a.prevState, act))
		}
	}
	return b.String()
}
