package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"time"
)

const (
	StatusRunning         = "running"
	StatusEpisodeComplete = "episode_complete"
	StatusDone            = "done"
	StatusCancelled       = "cancelled"
)

const (
	EstimatorTabular = "tabular"
	EstimatorLinear  = "linear"
)

const (
	PolicyEpsilonGreedy = "epsilon-greedy"
	PolicyScheduled     = "scheduled"
	PolicyRandom        = "random"
)

type Config struct {
	Episodes     int
	EvalEpisodes int
	Seed         int64
	Estimator    string
	Policy       string
	Alpha        float64
	Gamma        float64
	Epsilon      float64
	MaxEpsilon   float64
	DeltaEpsilon float64
	Every        int
	Rows         int
	Cols         int
	Rooms        int
	MaxSteps     int
	MaxDepth     int
	StepDelayMs  int
	Verbose      bool
	Logger       *log.Logger `json:"-"`
}

type Snapshot struct {
	Step              int
	Episode           int
	Mode              Mode
	Epoch             int
	EpisodeSteps      int
	EpisodeReward     float64
	RawReward         float64
	Reward            float64
	Action            Action
	Depth             int
	DeepestLevel      int
	Position          Position
	Map               []string
	Message           Message
	Epsilon           float64
	Report            string
	EpisodesCompleted int
	TotalReward       float64
	TotalSteps        int
	Config            Config
	Status            string
}

type Trainer struct {
	cfg               Config
	logger            *log.Logger
	env               *dungeonEnv
	agent             *Agent
	policy            Policy
	step              int
	episodesCompleted int
	totalReward       float64
	totalSteps        int
}

// episodeStats accumulates what a snapshot reports about the current episode.
type episodeStats struct {
	episode  int
	run      Run
	steps    int
	shaped   float64
	raw      float64
	reward   float64
	action   Action
	deepest  int
	position Position
}

func NewTrainer(cfg Config) *Trainer {
	if cfg.Estimator == "" {
		cfg.Estimator = EstimatorTabular
	}
	switch cfg.Estimator {
	case EstimatorTabular, EstimatorLinear:
		// allowed
	default:
		cfg.Estimator = EstimatorTabular
	}
	switch cfg.Policy {
	case PolicyEpsilonGreedy, PolicyScheduled, PolicyRandom:
		// allowed
	default:
		cfg.Policy = PolicyEpsilonGreedy
	}
	if cfg.Episodes < 0 {
		cfg.Episodes = 0
	}
	if cfg.EvalEpisodes < 0 {
		cfg.EvalEpisodes = 0
	}
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = 0.2
	}
	if cfg.Gamma <= 0 || cfg.Gamma > 1 {
		cfg.Gamma = 0.6
	}
	if cfg.Epsilon < 0 || cfg.Epsilon > 1 {
		cfg.Epsilon = 0.1
	}
	if cfg.MaxEpsilon <= 0 || cfg.MaxEpsilon > 1 {
		cfg.MaxEpsilon = 1
	}
	if cfg.DeltaEpsilon <= 0 {
		cfg.DeltaEpsilon = 0.2
		if cfg.Estimator == EstimatorLinear {
			cfg.DeltaEpsilon = 0.1
		}
	}
	if cfg.Every <= 0 {
		cfg.Every = 10
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 21
	}
	if cfg.Cols <= 0 {
		cfg.Cols = 60
	}
	if cfg.Rooms <= 0 {
		cfg.Rooms = 6
	}
	if cfg.MaxSteps < 0 {
		cfg.MaxSteps = 0
	}
	if cfg.MaxDepth <= 1 {
		cfg.MaxDepth = 5
	}
	if cfg.StepDelayMs < 0 {
		cfg.StepDelayMs = 0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))
	env := newDungeonEnv(cfg.Rows, cfg.Cols, cfg.Rooms, cfg.MaxSteps, cfg.MaxDepth, rand.New(rand.NewSource(seed+1)))

	var values ValueEstimator
	switch cfg.Estimator {
	case EstimatorLinear:
		values = NewLinearEstimator(cfg.Alpha, cfg.Gamma)
	default:
		values = NewQTable(cfg.Alpha, cfg.Gamma)
	}

	var policy Policy
	switch cfg.Policy {
	case PolicyScheduled:
		policy = NewEpsilonGreedy(rng, StaircaseEpsilon{Max: cfg.MaxEpsilon, Delta: cfg.DeltaEpsilon, Every: cfg.Every})
	case PolicyRandom:
		policy = NewRandomPolicy(rng)
	default:
		policy = NewEpsilonGreedy(rng, FixedEpsilon(cfg.Epsilon))
	}

	return &Trainer{
		cfg:    cfg,
		logger: logger,
		env:    env,
		agent:  NewAgent(values, policy, DefaultRewardShaper()),
		policy: policy,
	}
}

// Agent exposes the trained agent, e.g. for inspecting its estimator.
func (t *Trainer) Agent() *Agent {
	return t.agent
}

// Run plays Episodes training episodes followed by EvalEpisodes evaluation
// episodes, streaming a snapshot after every turn and every episode.
func (t *Trainer) Run(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot)
	go func() {
		defer close(out)
		total := t.cfg.Episodes + t.cfg.EvalEpisodes
		if total <= 0 {
			return
		}
		for episode := 1; episode <= total; episode++ {
			run := Run{Mode: ModeTrain, Epoch: episode - 1}
			if episode > t.cfg.Episodes {
				run = Run{Mode: ModeEvaluate, Epoch: t.cfg.Episodes}
			}
			select {
			case <-ctx.Done():
				out <- t.snapshot(StatusCancelled, &episodeStats{episode: episode, run: run})
				return
			default:
			}
			if !t.runEpisode(ctx, episode, run, out) {
				return
			}
		}
		t.logger.Printf("done: episodes=%d steps=%d total_reward=%.2f", t.episodesCompleted, t.totalSteps, t.totalReward)
		out <- t.snapshot(StatusDone, &episodeStats{episode: total, run: Run{Mode: ModeEvaluate, Epoch: t.cfg.Episodes}})
	}()
	return out
}

func (t *Trainer) runEpisode(ctx context.Context, episode int, run Run, out chan<- Snapshot) bool {
	t.env.reset()
	t.agent.Reset()
	stats := episodeStats{episode: episode, run: run, deepest: t.env.depth, position: t.env.pos}
	obs := t.env.observe(0)
	for {
		select {
		case <-ctx.Done():
			out <- t.snapshot(StatusCancelled, &stats)
			return false
		default:
		}
		action := t.agent.Act(run, &obs)
		stats.shaped += t.agent.LastReward()
		raw, done := t.env.step(action)
		obs = t.env.observe(raw)
		stats.steps++
		stats.raw += raw
		stats.reward = t.agent.LastReward()
		stats.action = action
		stats.position = t.env.pos
		if t.env.depth > stats.deepest {
			stats.deepest = t.env.depth
		}
		t.step++
		out <- t.snapshot(StatusRunning, &stats)
		if t.cfg.StepDelayMs > 0 {
			select {
			case <-ctx.Done():
				out <- t.snapshot(StatusCancelled, &stats)
				return false
			case <-time.After(time.Duration(t.cfg.StepDelayMs) * time.Millisecond):
			}
		}
		if done {
			break
		}
	}
	// Feed the terminal observation so the last action is learned from.
	t.agent.Act(run, &obs)

	t.totalReward += stats.shaped
	t.totalSteps += stats.steps
	t.episodesCompleted++
	t.logger.Printf("%s episode %d: steps=%d shaped=%.2f raw=%.2f depth=%d", run.Mode, episode, stats.steps, stats.shaped, stats.raw, stats.deepest)
	if t.cfg.Verbose {
		t.logVisitHeatmap(episode)
	}
	out <- t.snapshot(StatusEpisodeComplete, &stats)
	return true
}

// logVisitHeatmap prints how often each cell of the final level was occupied.
func (t *Trainer) logVisitHeatmap(episode int) {
	history := t.agent.History()
	var b strings.Builder
	fmt.Fprintf(&b, "visit heatmap (episode %d)\n", episode)
	for r := 0; r < t.env.rows; r++ {
		for c := 0; c < t.env.cols; c++ {
			count := history.Visits(Position{Row: r, Col: c})
			switch {
			case count == 0:
				b.WriteByte('.')
			case count < 10:
				b.WriteByte(byte('0' + count))
			default:
				b.WriteByte('*')
			}
		}
		b.WriteByte('\n')
	}
	t.logger.Print(b.String())
}

func (t *Trainer) epsilon() float64 {
	if p, ok := t.policy.(interface{ Epsilon() float64 }); ok {
		return p.Epsilon()
	}
	return 0
}

func (t *Trainer) snapshot(status string, stats *episodeStats) Snapshot {
	var grid []string
	if t.env.terrain != nil {
		grid = t.env.render()
	}
	return Snapshot{
		Step:              t.step,
		Episode:           stats.episode,
		Mode:              stats.run.Mode,
		Epoch:             stats.run.Epoch,
		EpisodeSteps:      stats.steps,
		EpisodeReward:     stats.shaped,
		RawReward:         stats.raw,
		Reward:            stats.reward,
		Action:            stats.action,
		Depth:             t.env.depth,
		DeepestLevel:      stats.deepest,
		Position:          stats.position,
		Map:               grid,
		Message:           t.env.message,
		Epsilon:           t.epsilon(),
		Report:            t.agent.Status(),
		EpisodesCompleted: t.episodesCompleted,
		TotalReward:       t.totalReward,
		TotalSteps:        t.totalSteps,
		Config:            t.cfg,
		Status:            status,
	}
}
