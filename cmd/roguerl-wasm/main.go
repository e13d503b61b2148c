//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"syscall/js"

	"rogue-rl-go/internal/engine"
)

var (
	startFnOnce sync.Once
	trainerMu   sync.Mutex
	currentCtx  context.CancelFunc
	onSnapshot  js.Value
)

func main() {
	registerCallbacks()
	// Prevent the program from exiting.
	select {}
}

func registerCallbacks() {
	startFnOnce.Do(func() {
		js.Global().Set("roguerlRegisterSnapshotHandler", js.FuncOf(registerSnapshotHandler))
		js.Global().Set("roguerlStartTraining", js.FuncOf(startTraining))
		js.Global().Set("roguerlStopTraining", js.FuncOf(stopTraining))
	})
}

func registerSnapshotHandler(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 || args[0].Type() != js.TypeFunction {
		fmt.Println("registerSnapshotHandler requires a function argument")
		return nil
	}
	onSnapshot = args[0]
	return nil
}

func startTraining(this js.Value, args []js.Value) interface{} {
	if len(args) == 0 {
		fmt.Println("startTraining requires a JSON config string")
		return nil
	}
	configJSON := args[0].String()
	var cfg engine.Config
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		fmt.Printf("invalid config: %v\n", err)
		return nil
	}
	if onSnapshot.IsUndefined() || onSnapshot.IsNull() {
		fmt.Println("snapshot handler not registered")
		return nil
	}

	trainerMu.Lock()
	if currentCtx != nil {
		currentCtx()
	}
	ctx, cancel := context.WithCancel(context.Background())
	currentCtx = cancel
	trainerMu.Unlock()

	trainer := engine.NewTrainer(cfg)
	go func() {
		for snapshot := range trainer.Run(ctx) {
			payload := snapshotToJS(snapshot)
			onSnapshot.Invoke(payload)
		}
	}()
	return nil
}

func stopTraining(this js.Value, args []js.Value) interface{} {
	trainerMu.Lock()
	if currentCtx != nil {
		currentCtx()
		currentCtx = nil
	}
	trainerMu.Unlock()
	return nil
}

func snapshotToJS(snapshot engine.Snapshot) js.Value {
	grid := make([]interface{}, len(snapshot.Map))
	for i, line := range snapshot.Map {
		grid[i] = line
	}
	position := map[string]interface{}{
		"row": snapshot.Position.Row,
		"col": snapshot.Position.Col,
	}
	message := map[string]interface{}{
		"isMore": snapshot.Message.IsMore,
		"isYN":   snapshot.Message.IsYN,
		"text":   snapshot.Message.Text,
	}
	config := map[string]interface{}{
		"episodes":     snapshot.Config.Episodes,
		"evalEpisodes": snapshot.Config.EvalEpisodes,
		"seed":         snapshot.Config.Seed,
		"estimator":    snapshot.Config.Estimator,
		"policy":       snapshot.Config.Policy,
		"alpha":        snapshot.Config.Alpha,
		"gamma":        snapshot.Config.Gamma,
		"epsilon":      snapshot.Config.Epsilon,
		"maxEpsilon":   snapshot.Config.MaxEpsilon,
		"deltaEpsilon": snapshot.Config.DeltaEpsilon,
		"every":        snapshot.Config.Every,
		"rows":         snapshot.Config.Rows,
		"cols":         snapshot.Config.Cols,
		"rooms":        snapshot.Config.Rooms,
		"maxSteps":     snapshot.Config.MaxSteps,
		"maxDepth":     snapshot.Config.MaxDepth,
		"stepDelayMs":  snapshot.Config.StepDelayMs,
	}
	payload := map[string]interface{}{
		"step":              snapshot.Step,
		"episode":           snapshot.Episode,
		"mode":              snapshot.Mode.String(),
		"epoch":             snapshot.Epoch,
		"episodeSteps":      snapshot.EpisodeSteps,
		"episodeReward":     snapshot.EpisodeReward,
		"rawReward":         snapshot.RawReward,
		"reward":            snapshot.Reward,
		"action":            snapshot.Action.String(),
		"depth":             snapshot.Depth,
		"deepestLevel":      snapshot.DeepestLevel,
		"position":          position,
		"map":               grid,
		"message":           message,
		"epsilon":           snapshot.Epsilon,
		"report":            snapshot.Report,
		"episodesCompleted": snapshot.EpisodesCompleted,
		"totalReward":       snapshot.TotalReward,
		"totalSteps":        snapshot.TotalSteps,
		"config":            config,
		"status":            snapshot.Status,
	}
	return js.ValueOf(payload)
}
