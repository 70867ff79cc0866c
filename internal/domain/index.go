package domain

import "math"

// parameterVariant couples a canonical parameter with its response curve.
// The calculator iterates this set instead of branching on parameter names.
type parameterVariant struct {
	param Parameter
	curve func(value float64, t Thresholds) float64
}

var parameterVariants = []parameterVariant{
	{ParamDO, func(v float64, t Thresholds) float64 {
		return math.Min(100, v/t.ExcellentDO*100)
	}},
	{ParamBOD, func(v float64, t Thresholds) float64 {
		return math.Max(0, 100*(1-v/(2*t.ModerateBOD)))
	}},
	{ParamPH, func(v float64, t Thresholds) float64 {
		if v >= t.MinPH && v <= t.MaxPH {
			return 100
		}
		return math.Max(0, 100-math.Abs(v-7.5)*20)
	}},
	{ParamColiforms, func(v float64, _ Thresholds) float64 {
		return math.Max(0, 100-math.Log10(v+1)*20)
	}},
}

// ComputeIndex evaluates the response curve for every parameter present in
// the sample and aggregates the sub-indices into a weighted composite score.
// When no parameter carries data the score and category are nil. Sub-indices
// and the composite are each rounded to one decimal independently.
func ComputeIndex(s Sample, cfg IndexConfig) (rwqi *float64, category *string, subindices map[Parameter]float64) {
	subindices = make(map[Parameter]float64)

	var numerator, denominator float64
	for _, variant := range parameterVariants {
		v := s.Value(variant.param)
		if v == nil {
			continue
		}
		sub := variant.curve(*v, cfg.Thresholds)
		subindices[variant.param] = round1(sub)

		w := cfg.Weights[variant.param]
		numerator += sub * w
		denominator += w
	}

	if denominator == 0 {
		return nil, nil, subindices
	}

	score := round1(numerator / denominator)
	cat := Classify(score)
	return &score, &cat, subindices
}

// Classify maps a composite score to its category, highest band first.
func Classify(score float64) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 50:
		return "Moderate"
	case score >= 25:
		return "Poor"
	default:
		return "Bad"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
