package domain

import (
	"encoding/json"
	"fmt"
)

// Thresholds holds the per-parameter breakpoints used by the response curves.
type Thresholds struct {
	ExcellentDO float64 `json:"excellent_do"` // DO at or above this scores 100
	ModerateBOD float64 `json:"moderate_bod"` // BOD curve hits 0 at twice this
	MinPH       float64 `json:"min_ph"`
	MaxPH       float64 `json:"max_ph"`
}

// Weights maps parameter names to their non-negative aggregation weights.
// Weights need not sum to 1; the composite is a weighted mean.
type Weights map[Parameter]float64

// IndexConfig is the strongly-typed RWQI configuration. FreshnessSeconds is
// an advisory staleness bound carried from the upstream configuration; it is
// not applied anywhere in the computation.
type IndexConfig struct {
	Weights          Weights    `json:"weights"`
	Thresholds       Thresholds `json:"thresholds"`
	FreshnessSeconds int        `json:"freshness_seconds"`
}

// DefaultIndexConfig returns the built-in weights and thresholds.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		Weights: Weights{
			ParamDO:        0.3,
			ParamBOD:       0.25,
			ParamPH:        0.2,
			ParamColiforms: 0.25,
		},
		Thresholds: Thresholds{
			ExcellentDO: 6,
			ModerateBOD: 3,
			MinPH:       6.5,
			MaxPH:       8.5,
		},
		FreshnessSeconds: 86400,
	}
}

// indexConfigOverride mirrors IndexConfig with optional fields so a partial
// JSON override can be distinguished from an explicit zero.
type indexConfigOverride struct {
	Weights    map[string]float64 `json:"weights"`
	Thresholds *struct {
		ExcellentDO *float64 `json:"excellent_do"`
		ModerateBOD *float64 `json:"moderate_bod"`
		MinPH       *float64 `json:"min_ph"`
		MaxPH       *float64 `json:"max_ph"`
	} `json:"thresholds"`
	FreshnessSeconds *int `json:"freshness_seconds"`
}

// ApplyOverride merges a JSON configuration override into c. Unknown weight
// keys, negative weights, non-positive thresholds, and an inverted pH band
// are all rejected rather than propagated.
func (c *IndexConfig) ApplyOverride(raw []byte) error {
	var o indexConfigOverride
	if err := json.Unmarshal(raw, &o); err != nil {
		return fmt.Errorf("parse index config override: %w", err)
	}

	for name, w := range o.Weights {
		p := Parameter(name)
		if _, ok := c.Weights[p]; !ok {
			return fmt.Errorf("unknown weight parameter %q", name)
		}
		if w < 0 {
			return fmt.Errorf("weight for %q must be non-negative, got %g", name, w)
		}
		c.Weights[p] = w
	}

	if t := o.Thresholds; t != nil {
		if t.ExcellentDO != nil {
			c.Thresholds.ExcellentDO = *t.ExcellentDO
		}
		if t.ModerateBOD != nil {
			c.Thresholds.ModerateBOD = *t.ModerateBOD
		}
		if t.MinPH != nil {
			c.Thresholds.MinPH = *t.MinPH
		}
		if t.MaxPH != nil {
			c.Thresholds.MaxPH = *t.MaxPH
		}
	}
	if o.FreshnessSeconds != nil {
		c.FreshnessSeconds = *o.FreshnessSeconds
	}

	if c.Thresholds.ExcellentDO <= 0 {
		return fmt.Errorf("excellent_do must be positive, got %g", c.Thresholds.ExcellentDO)
	}
	if c.Thresholds.ModerateBOD <= 0 {
		return fmt.Errorf("moderate_bod must be positive, got %g", c.Thresholds.ModerateBOD)
	}
	if c.Thresholds.MinPH >= c.Thresholds.MaxPH {
		return fmt.Errorf("min_ph %g must be below max_ph %g", c.Thresholds.MinPH, c.Thresholds.MaxPH)
	}
	return nil
}
