// Package main provides CMA-ES optimization for colony tuning parameters.
package main

import (
	"github.com/pthm-cable/brood/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// The signal field and pulse markers carry all unit coordination, so
// most of the vector is field tuning; the rest shapes unit temperament.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Signal field - transport channels
			{Name: "push_diffusion", Path: "signals.push.diffusion_factor", Min: 0.1, Max: 0.9, Default: 0.6},
			{Name: "push_decay", Path: "signals.push.decay_factor", Min: 0.85, Max: 0.999, Default: 0.99},
			{Name: "pull_diffusion", Path: "signals.pull.diffusion_factor", Min: 0.1, Max: 0.9, Default: 0.6},
			{Name: "pull_decay", Path: "signals.pull.decay_factor", Min: 0.85, Max: 0.999, Default: 0.99},
			// Signal field - labor channel
			{Name: "work_diffusion", Path: "signals.work.diffusion_factor", Min: 0.1, Max: 0.9, Default: 0.6},
			{Name: "work_decay", Path: "signals.work.decay_factor", Min: 0.85, Max: 0.999, Default: 0.99},
			// Presence advertising (too strong and units mob each other)
			{Name: "unit_emit", Path: "signals.unit.emit_strength", Min: 0.0, Max: 0.1, Default: 0.01},
			// Pulse markers
			{Name: "pulse_diffusivity", Path: "pulses.diffusivity", Min: 0.05, Max: 1.0, Default: 0.2},
			{Name: "pulse_decay_rate", Path: "pulses.decay_rate", Min: 0.5, Max: 8.0, Default: 2.0},
			{Name: "lure_strength", Path: "pulses.lure_strength", Min: 10, Max: 400, Default: 100},
			{Name: "repel_strength", Path: "pulses.repel_strength", Min: 10, Max: 400, Default: 50},
			// Unit temperament (applied to every unit kind)
			{Name: "hunger_threshold", Path: "units.*.hunger_threshold", Min: 0.15, Max: 0.6, Default: 0.35},
			{Name: "max_impatience", Path: "units.*.max_impatience", Min: 2, Max: 20, Default: 10},
			{Name: "wander_period", Path: "units.*.mean_free_wander_period", Min: 4, Max: 64, Default: 16},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	// Clamp values to ensure they're within bounds
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0

	cfg.Signals.Push.DiffusionFactor = clamped[i]
	i++
	cfg.Signals.Push.DecayFactor = clamped[i]
	i++
	cfg.Signals.Pull.DiffusionFactor = clamped[i]
	i++
	cfg.Signals.Pull.DecayFactor = clamped[i]
	i++
	cfg.Signals.Work.DiffusionFactor = clamped[i]
	i++
	cfg.Signals.Work.DecayFactor = clamped[i]
	i++
	cfg.Signals.Unit.EmitStrength = clamped[i]
	i++

	cfg.Pulses.Diffusivity = clamped[i]
	i++
	cfg.Pulses.DecayRate = clamped[i]
	i++
	cfg.Pulses.LureStrength = clamped[i]
	i++
	cfg.Pulses.RepelStrength = clamped[i]
	i++

	hunger := clamped[i]
	i++
	impatience := int(clamped[i] + 0.5)
	i++
	wander := clamped[i]

	for j := range cfg.Units {
		cfg.Units[j].HungerThreshold = hunger
		cfg.Units[j].MaxImpatience = impatience
		cfg.Units[j].MeanFreeWanderPeriod = wander
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
// Unit temperament is read from the first unit kind.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := []float64{
		cfg.Signals.Push.DiffusionFactor,
		cfg.Signals.Push.DecayFactor,
		cfg.Signals.Pull.DiffusionFactor,
		cfg.Signals.Pull.DecayFactor,
		cfg.Signals.Work.DiffusionFactor,
		cfg.Signals.Work.DecayFactor,
		cfg.Signals.Unit.EmitStrength,
		cfg.Pulses.Diffusivity,
		cfg.Pulses.DecayRate,
		cfg.Pulses.LureStrength,
		cfg.Pulses.RepelStrength,
	}
	if len(cfg.Units) > 0 {
		v = append(v,
			cfg.Units[0].HungerThreshold,
			float64(cfg.Units[0].MaxImpatience),
			cfg.Units[0].MeanFreeWanderPeriod,
		)
	} else {
		v = append(v, pv.Specs[11].Default, pv.Specs[12].Default, pv.Specs[13].Default)
	}
	return v
}
