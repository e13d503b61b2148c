package main

import (
	"fmt"

	"github.com/logrusorgru/aurora"

	"rogue-rl-go/internal/engine"
)

type episodeResult struct {
	episode int
	mode    engine.Mode
	steps   int
	shaped  float64
	raw     float64
	depth   int
}

func formatEpisode(au aurora.Aurora, r episodeResult, epsilon float64) string {
	mode := au.Green(r.mode.String())
	if r.mode == engine.ModeEvaluate {
		mode = au.Blue(r.mode.String())
	}
	return fmt.Sprintf("%s episode %d: return=%.2f raw=%.2f steps=%d depth=%d epsilon=%.2f",
		mode, r.episode, r.shaped, r.raw, r.steps, r.depth, epsilon)
}

func printSummary(au aurora.Aurora, results []episodeResult) {
	for _, mode := range []engine.Mode{engine.ModeTrain, engine.ModeEvaluate} {
		var (
			count   int
			reward  float64
			steps   int
			deepest int
		)
		for _, r := range results {
			if r.mode != mode {
				continue
			}
			count++
			reward += r.shaped
			steps += r.steps
			if r.depth > deepest {
				deepest = r.depth
			}
		}
		if count == 0 {
			continue
		}
		fmt.Printf("%s: avg_return=%.2f avg_steps=%.2f deepest=%d\n",
			au.Bold(fmt.Sprintf("summary %s", mode)), reward/float64(count), float64(steps)/float64(count), deepest)
	}
}
