package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rogue-rl-go/internal/engine"
)

func TestFormatEpisode(t *testing.T) {
	au := aurora.NewAurora(false)
	line := formatEpisode(au, episodeResult{episode: 3, mode: engine.ModeEvaluate, steps: 40, shaped: 12.5, raw: 2, depth: 2}, 0.1)
	assert.Equal(t, "TEST episode 3: return=12.50 raw=2.00 steps=40 depth=2 epsilon=0.10", line)
}

func TestWriteChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "train.html")
	results := []episodeResult{
		{episode: 1, steps: 100, shaped: -3.2, depth: 1},
		{episode: 2, steps: 90, shaped: 48.1, depth: 2},
	}
	require.NoError(t, writeChart(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "episode returns")
}

func TestCheckUnit(t *testing.T) {
	assert.NoError(t, checkUnit("alpha", 0.5))
	assert.EqualError(t, checkUnit("alpha", 1.5), "alpha must be between 0 and 1 (got 1.50)")
}
