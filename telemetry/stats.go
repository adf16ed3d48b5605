package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Population counts at window end
	UnitCount      int `csv:"units"`
	StructureCount int `csv:"structures"`
	GhostCount     int `csv:"ghosts"`

	// Lifecycle events during window
	UnitsSpawned int `csv:"units_spawned"`
	UnitsStarved int `csv:"units_starved"`

	// Completed actions during window
	Moves       int `csv:"moves"`
	PickUps     int `csv:"pick_ups"`
	DropOffs    int `csv:"drop_offs"`
	Eats        int `csv:"eats"`
	Works       int `csv:"works"`
	Demolishes  int `csv:"demolishes"`
	Abandons    int `csv:"abandons"`
	IdleTicks   int `csv:"idle_ticks"`
	HungerStops int `csv:"hunger_stops"`

	// Production
	CraftsStarted   int `csv:"crafts_started"`
	CraftsFinished  int `csv:"crafts_finished"`
	CraftsBlocked   int `csv:"crafts_blocked"`
	GhostsCompleted int `csv:"ghosts_completed"`
	Demolitions     int `csv:"demolitions"`

	// Unit energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Signal field health
	SignalTotal    float64 `csv:"signal_total"`
	SignalChannels int     `csv:"signal_channels"`
	PulseCount     int     `csv:"pulse_count"`
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("units", s.UnitCount),
		slog.Int("structures", s.StructureCount),
		slog.Int("ghosts", s.GhostCount),
		slog.Int("units_spawned", s.UnitsSpawned),
		slog.Int("units_starved", s.UnitsStarved),
		slog.Int("moves", s.Moves),
		slog.Int("pick_ups", s.PickUps),
		slog.Int("drop_offs", s.DropOffs),
		slog.Int("eats", s.Eats),
		slog.Int("works", s.Works),
		slog.Int("demolishes", s.Demolishes),
		slog.Int("abandons", s.Abandons),
		slog.Int("idle_ticks", s.IdleTicks),
		slog.Int("hunger_stops", s.HungerStops),
		slog.Int("crafts_started", s.CraftsStarted),
		slog.Int("crafts_finished", s.CraftsFinished),
		slog.Int("crafts_blocked", s.CraftsBlocked),
		slog.Int("ghosts_completed", s.GhostsCompleted),
		slog.Int("demolitions", s.Demolitions),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("signal_total", s.SignalTotal),
		slog.Int("signal_channels", s.SignalChannels),
		slog.Int("pulse_count", s.PulseCount),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"units", s.UnitCount,
		"structures", s.StructureCount,
		"ghosts", s.GhostCount,
		"units_spawned", s.UnitsSpawned,
		"units_starved", s.UnitsStarved,
		"moves", s.Moves,
		"pick_ups", s.PickUps,
		"drop_offs", s.DropOffs,
		"eats", s.Eats,
		"works", s.Works,
		"demolishes", s.Demolishes,
		"abandons", s.Abandons,
		"hunger_stops", s.HungerStops,
		"crafts_started", s.CraftsStarted,
		"crafts_finished", s.CraftsFinished,
		"crafts_blocked", s.CraftsBlocked,
		"ghosts_completed", s.GhostsCompleted,
		"demolitions", s.Demolitions,
		"energy_mean", s.EnergyMean,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"signal_total", s.SignalTotal,
		"signal_channels", s.SignalChannels,
		"pulse_count", s.PulseCount,
	)
}
