package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/logrusorgru/aurora"

	"rogue-rl-go/internal/engine"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "roguerl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errors.New("missing subcommand; try 'train'")
	}

	subcommand := os.Args[1]
	switch subcommand {
	case "train":
		return runTrain(os.Args[2:])
	default:
		return fmt.Errorf("unknown subcommand %q", subcommand)
	}
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	episodes := fs.Int("episodes", 20, "number of training episodes")
	evalEpisodes := fs.Int("eval-episodes", 0, "number of evaluation episodes after training")
	seed := fs.Int64("seed", 0, "deterministic seed (0 for default)")
	estimator := fs.String("estimator", engine.EstimatorTabular, "value estimator: tabular or linear")
	policy := fs.String("policy", engine.PolicyEpsilonGreedy, "policy: epsilon-greedy, scheduled or random")
	alpha := fs.Float64("alpha", 0.2, "learning rate (0-1)")
	gamma := fs.Float64("gamma", 0.6, "discount factor (0-1)")
	epsilon := fs.Float64("epsilon", 0.1, "exploration rate for epsilon-greedy (0-1)")
	maxEpsilon := fs.Float64("max-epsilon", 1, "starting exploration rate for scheduled (0-1)")
	deltaEpsilon := fs.Float64("delta-epsilon", 0, "exploration drop per stair for scheduled (0 for default)")
	every := fs.Int("every", 10, "epochs per exploration stair for scheduled")
	rows := fs.Int("rows", 21, "dungeon rows")
	cols := fs.Int("cols", 60, "dungeon columns")
	rooms := fs.Int("rooms", 6, "rooms per level")
	maxSteps := fs.Int("max-steps", 0, "turns per episode (0 for a size-based default)")
	maxDepth := fs.Int("max-depth", 5, "dungeon level that ends an episode")
	verbose := fs.Bool("verbose", false, "log episode summaries and visit heat maps to stderr")
	show := fs.Bool("show", false, "print the final map and agent status of every episode")
	color := fs.Bool("color", true, "colourise terminal output")
	chartPath := fs.String("chart", "", "write an HTML chart of episode returns to this path")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *episodes <= 0 {
		return fmt.Errorf("episodes must be positive (got %d)", *episodes)
	}
	if *evalEpisodes < 0 {
		return fmt.Errorf("eval-episodes must not be negative (got %d)", *evalEpisodes)
	}
	if err := checkUnit("alpha", *alpha); err != nil {
		return err
	}
	if err := checkUnit("gamma", *gamma); err != nil {
		return err
	}
	if err := checkUnit("epsilon", *epsilon); err != nil {
		return err
	}
	if err := checkUnit("max-epsilon", *maxEpsilon); err != nil {
		return err
	}
	switch *estimator {
	case engine.EstimatorTabular, engine.EstimatorLinear:
	default:
		return fmt.Errorf("unknown estimator %q", *estimator)
	}
	switch *policy {
	case engine.PolicyEpsilonGreedy, engine.PolicyScheduled, engine.PolicyRandom:
	default:
		return fmt.Errorf("unknown policy %q", *policy)
	}

	cfg := engine.Config{
		Episodes:     *episodes,
		EvalEpisodes: *evalEpisodes,
		Seed:         *seed,
		Estimator:    *estimator,
		Policy:       *policy,
		Alpha:        *alpha,
		Gamma:        *gamma,
		Epsilon:      *epsilon,
		MaxEpsilon:   *maxEpsilon,
		DeltaEpsilon: *deltaEpsilon,
		Every:        *every,
		Rows:         *rows,
		Cols:         *cols,
		Rooms:        *rooms,
		MaxSteps:     *maxSteps,
		MaxDepth:     *maxDepth,
		Verbose:      *verbose,
	}
	if *verbose {
		cfg.Logger = log.New(os.Stderr, "roguerl: ", log.LstdFlags)
	}

	au := aurora.NewAurora(*color)
	fmt.Printf("train config => estimator=%s policy=%s episodes=%d eval=%d seed=%d alpha=%.2f gamma=%.2f epsilon=%.2f\n",
		cfg.Estimator, cfg.Policy, cfg.Episodes, cfg.EvalEpisodes, cfg.Seed, cfg.Alpha, cfg.Gamma, cfg.Epsilon)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		history []episodeResult
		final   engine.Snapshot
	)
	for snapshot := range engine.NewTrainer(cfg).Run(ctx) {
		final = snapshot
		if snapshot.Status != engine.StatusEpisodeComplete {
			continue
		}
		result := episodeResult{
			episode: snapshot.Episode,
			mode:    snapshot.Mode,
			steps:   snapshot.EpisodeSteps,
			shaped:  snapshot.EpisodeReward,
			raw:     snapshot.RawReward,
			depth:   snapshot.DeepestLevel,
		}
		history = append(history, result)
		fmt.Println(formatEpisode(au, result, snapshot.Epsilon))
		if *show {
			fmt.Println(strings.Join(snapshot.Map, "\n"))
			fmt.Println(au.Faint(snapshot.Report))
		}
	}
	if final.Status == engine.StatusCancelled {
		return errors.New("training cancelled")
	}

	printSummary(au, history)
	if *chartPath != "" {
		if err := writeChart(*chartPath, history); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Printf("chart written to %s\n", *chartPath)
	}
	return nil
}

func checkUnit(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be between 0 and 1 (got %.2f)", name, v)
	}
	return nil
}
