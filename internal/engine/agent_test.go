package engine

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedUpdate struct {
	prev       State
	prevAction Action
	reward     float64
	next       State
}

// recordingEstimator wraps a QTable and remembers every Update call.
type recordingEstimator struct {
	*QTable
	updates []recordedUpdate
}

func (r *recordingEstimator) Update(prev State, prevAction Action, reward float64, next State) {
	r.updates = append(r.updates, recordedUpdate{prev: prev, prevAction: prevAction, reward: reward, next: next})
	r.QTable.Update(prev, prevAction, reward, next)
}

func newTestAgent(seed int64, eps float64) (*Agent, *recordingEstimator) {
	values := &recordingEstimator{QTable: NewQTable(0.2, 0.6)}
	policy := NewEpsilonGreedy(rand.New(rand.NewSource(seed)), FixedEpsilon(eps))
	return NewAgent(values, policy, DefaultRewardShaper()), values
}

func TestAgentFirstStepExplores(t *testing.T) {
	counts := make(map[Action]int)
	for seed := int64(1); seed <= 400; seed++ {
		agent, values := newTestAgent(seed, 0)
		act := agent.Act(Run{}, floorObservation())
		require.True(t, act.IsMove())
		require.False(t, agent.LastState().Known())
		require.Empty(t, values.updates)
		counts[act]++
	}
	assert.Len(t, counts, len(MoveActions))
}

func TestAgentLearnsWithOneStepLag(t *testing.T) {
	agent, values := newTestAgent(7, 0)
	first := &Observation{Map: []string{"...", ".@.", "..."}, Depth: KnownDepth(1)}
	second := &Observation{Map: []string{"...", "..@", "..."}, Reward: 3, Depth: KnownDepth(1)}
	third := &Observation{Map: []string{"...", ".@.", "..."}, Depth: KnownDepth(2)}

	a1 := agent.Act(Run{}, first)
	assert.InDelta(t, 4.9, agent.LastReward(), 1e-9, "the first snapshot counts as a discovery")
	assert.Equal(t, 1, agent.History().Len())

	a2 := agent.Act(Run{}, second)
	require.Len(t, values.updates, 1)
	u := values.updates[0]
	assert.False(t, u.prev.Known())
	assert.Equal(t, a1, u.prevAction)
	assert.InDelta(t, 4.9, u.reward, 1e-9)
	s2 := agent.LastState()
	require.True(t, s2.Known())
	assert.Equal(t, s2, u.next)
	assert.Zero(t, values.Len(), "no learning from an unknown state")
	assert.InDelta(t, 2.9, agent.LastReward(), 1e-9)

	agent.Act(Run{}, third)
	require.Len(t, values.updates, 2)
	u = values.updates[1]
	assert.Equal(t, s2, u.prev)
	assert.Equal(t, a2, u.prevAction)
	assert.InDelta(t, 2.9, u.reward, 1e-9)
	assert.Equal(t, 1, values.Visits(s2, a2))
	// Back on the starting cell one level deeper: -0.5 + 50 - 0.1.
	assert.InDelta(t, 49.4, agent.LastReward(), 1e-9)
	assert.Equal(t, 3, agent.History().Len())
}

func TestAgentAnswersPrompts(t *testing.T) {
	agent, _ := newTestAgent(1, 0)
	agent.Act(Run{}, floorObservation())

	obs := floorObservation()
	obs.Message = Message{IsMore: true}
	assert.Equal(t, ActionMore, agent.Act(Run{}, obs))

	obs = floorObservation()
	obs.Message = Message{IsYN: true, Text: "Beware, the dog is diseased!"}
	assert.Equal(t, ActionNo, agent.Act(Run{}, obs))

	obs.Message = Message{IsYN: true, Text: "Really attack?"}
	assert.Equal(t, ActionYes, agent.Act(Run{}, obs))
}

func TestAgentToleratesMissingSelf(t *testing.T) {
	agent, values := newTestAgent(2, 0.5)
	agent.Act(Run{}, floorObservation())
	agent.Act(Run{}, floorObservation())

	dead := &Observation{Map: []string{"...", "...", "..."}, Reward: -10}
	act := agent.Act(Run{}, dead)
	assert.True(t, act.IsMove())
	assert.False(t, agent.LastState().Known())
	assert.Equal(t, 2, agent.History().Len(), "no position, no history entry")
	assert.Len(t, values.updates, 2)
}

func TestAgentResetKeepsLearning(t *testing.T) {
	agent, values := newTestAgent(3, 0)
	agent.Act(Run{}, floorObservation())
	agent.Act(Run{}, floorObservation())
	agent.Act(Run{}, floorObservation())
	learned := values.Len()
	require.NotZero(t, learned)

	agent.Reset()
	assert.Zero(t, agent.History().Len())
	assert.False(t, agent.LastState().Known())
	_, ok := agent.LastAction()
	assert.False(t, ok)
	assert.Equal(t, learned, values.Len())

	agent.Act(Run{}, floorObservation())
	assert.Len(t, values.updates, 2, "the first step after a reset does not learn")
}

func TestAgentStatus(t *testing.T) {
	agent, _ := newTestAgent(4, 0)
	agent.Act(Run{Mode: ModeTrain, Epoch: 3}, floorObservation())
	status := agent.Status()
	assert.True(t, strings.HasPrefix(status, "TRAIN\tEP:3\n"), status)

	agent.Act(Run{Mode: ModeEvaluate, Epoch: 12}, floorObservation())
	status = agent.Status()
	assert.True(t, strings.HasPrefix(status, "TEST\tEP:12\tQ:"), status)
	assert.Contains(t, status, "\tST:"+agent.LastState().String())
	assert.Contains(t, status, "\tBN:.")
	for _, a := range MoveActions {
		assert.Contains(t, status, "\t"+a.String()+":")
	}
}
