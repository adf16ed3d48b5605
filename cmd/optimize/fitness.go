package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/game"
	"github.com/pthm-cable/brood/telemetry"
)

// FitnessEvaluator runs headless colony simulations and scores them
// on production throughput.
//
// The systems read the process-global configuration, so candidate
// configs are installed with config.Set and seeds run one after
// another. Evaluations are not safe to run concurrently.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	configPath string

	// StatsWindow passed to every run, in ticks.
	statsWindow int64

	mu          sync.Mutex
	bestFitness float64
	lastScore   float64
}

// NewFitnessEvaluator creates an evaluator with the given settings.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, configPath string) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		configPath:  configPath,
		statsWindow: 600,
		bestFitness: math.Inf(1),
	}
}

// LastScore returns the throughput score from the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Throughput weights. Finished crafts are the point of the colony;
// completed buildings compound future throughput; deliveries are a
// weak tiebreaker so dead configs still order sensibly.
const (
	weightCraft    = 1.0
	weightBuilding = 3.0
	weightDelivery = 0.05
	weightStarved  = 5.0

	// Skip the first windows while the field charges up.
	warmupWindows = 2
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int64                   // ticks before the last unit starved (or maxTicks)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative throughput: more production = lower fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg, err := config.Load(fe.configPath)
	if err != nil {
		panic(fmt.Sprintf("reloading base config: %v", err))
	}
	fe.params.ApplyToConfig(cfg, x)
	config.Set(cfg)

	var totalFitness, totalScore float64
	for _, seed := range fe.seeds {
		result := fe.runSimulation(seed)
		score := fe.computeScore(result)
		totalScore += score
		totalFitness += fe.computeFitness(result, score)
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastScore = totalScore / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run.
// Runs until the colony starves out or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(seed int64) *runResult {
	result := &runResult{}

	g, err := game.NewGame(game.Options{
		Seed:        seed,
		StatsWindow: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		panic(fmt.Sprintf("creating game for seed %d: %v", seed, err))
	}
	defer g.Close()

	for g.Tick() < fe.maxTicks {
		g.Step()
		if units, _, _ := g.Counts(); units == 0 {
			result.survivalTicks = g.Tick()
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// computeScore sums weighted production over the post-warmup windows.
func (fe *FitnessEvaluator) computeScore(r *runResult) float64 {
	if len(r.windowStats) <= warmupWindows {
		return 0
	}

	var score float64
	for _, w := range r.windowStats[warmupWindows:] {
		score += weightCraft*float64(w.CraftsFinished) +
			weightBuilding*float64(w.GhostsCompleted) +
			weightDelivery*float64(w.DropOffs) -
			weightStarved*float64(w.UnitsStarved)
	}
	return score
}

// computeFitness calculates the scalar fitness (lower = better).
// Throughput dominates; the survival fraction discounts configs that
// produce briefly and then starve the colony out.
func (fe *FitnessEvaluator) computeFitness(r *runResult, score float64) float64 {
	survival := float64(r.survivalTicks) / float64(fe.maxTicks)
	return -(score * survival)
}
