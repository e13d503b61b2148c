package engine

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layoutEnv(t *testing.T, layout ...string) *dungeonEnv {
	t.Helper()
	env := newDungeonEnv(10, 20, 3, 50, 3, rand.New(rand.NewSource(1)))
	env.reset()
	env.loadLayout(layout)
	return env
}

func TestDungeonGenerateRendersOneAgent(t *testing.T) {
	env := newDungeonEnv(21, 60, 6, 0, 5, rand.New(rand.NewSource(9)))
	env.reset()

	obs := env.observe(0)
	require.Len(t, obs.Map, 21)
	count := 0
	for _, line := range obs.Map {
		require.Len(t, line, 60)
		count += strings.Count(line, "@")
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, KnownDepth(1), obs.Depth)

	stairs := 0
	for _, row := range env.terrain {
		stairs += strings.Count(string(row), ">")
	}
	assert.Equal(t, 1, stairs)
	assert.Equal(t, glyphFloor, rune(env.terrain[env.pos.Row][env.pos.Col]))
}

func TestDungeonWallsBlock(t *testing.T) {
	env := layoutEnv(t,
		"-----",
		"|@..|",
		"-----",
	)
	reward, done := env.step(MoveNorth)
	assert.Zero(t, reward)
	assert.False(t, done)
	assert.Equal(t, Position{Row: 1, Col: 1}, env.pos)

	env.step(MoveEast)
	assert.Equal(t, Position{Row: 1, Col: 2}, env.pos)
}

func TestDungeonGold(t *testing.T) {
	env := layoutEnv(t,
		"-----",
		"|@$.|",
		"-----",
	)
	reward, _ := env.step(MoveEast)
	assert.Equal(t, goldReward, reward)
	assert.Equal(t, "|.@.|", env.render()[1])
}

func TestDungeonAttackPrompt(t *testing.T) {
	env := layoutEnv(t,
		"-----",
		"|@d.|",
		"-----",
	)
	env.step(MoveEast)
	obs := env.observe(0)
	require.True(t, obs.Message.IsYN)
	assert.Equal(t, "Really attack the jackal?", obs.Message.Text)
	assert.Equal(t, Position{Row: 1, Col: 1}, env.pos)

	reward, _ := env.step(ActionYes)
	assert.Equal(t, killReward, reward)
	assert.False(t, env.observe(0).Message.IsYN)
	assert.Equal(t, "|@..|", env.render()[1])
}

func TestDungeonTrapPrompt(t *testing.T) {
	env := layoutEnv(t,
		"------",
		"|@^..|",
		"------",
	)
	env.step(MoveEast)
	obs := env.observe(0)
	require.True(t, obs.Message.IsYN)
	assert.Contains(t, obs.Message.Text, "Beware")

	env.step(ActionNo)
	assert.Equal(t, Position{Row: 1, Col: 1}, env.pos)

	env.step(MoveEast)
	reward, _ := env.step(ActionYes)
	assert.Equal(t, -trapPenalty, reward)
	assert.Equal(t, Position{Row: 1, Col: 2}, env.pos)
}

func TestDungeonStairsDescend(t *testing.T) {
	env := layoutEnv(t,
		"-----",
		"|@>.|",
		"-----",
	)
	_, done := env.step(MoveEast)
	require.False(t, done)
	obs := env.observe(0)
	assert.Equal(t, KnownDepth(2), obs.Depth)
	require.True(t, obs.Message.IsMore)

	before := env.pos
	env.step(MoveWest)
	assert.Equal(t, before, env.pos, "moves are ignored until the prompt is acknowledged")
	assert.True(t, env.observe(0).Message.IsMore)

	env.step(ActionMore)
	assert.False(t, env.observe(0).Message.IsMore)
}

func TestDungeonEndsAtMaxDepth(t *testing.T) {
	env := layoutEnv(t,
		"-----",
		"|@>.|",
		"-----",
	)
	env.depth = env.maxDepth - 1
	_, done := env.step(MoveEast)
	assert.True(t, done)
}

func TestDungeonTimesOut(t *testing.T) {
	env := newDungeonEnv(10, 20, 2, 10, 5, rand.New(rand.NewSource(4)))
	env.reset()
	env.loadLayout([]string{"---", "|@|", "---"})

	var done bool
	for i := 0; i < env.maxSteps; i++ {
		_, done = env.step(MoveNorth)
	}
	assert.True(t, done)
}
