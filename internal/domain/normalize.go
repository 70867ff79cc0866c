package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// fieldVariants maps each canonical parameter to the source column names it
// may appear under, in priority order. Lookup is case-insensitive.
var fieldVariants = map[Parameter][]string{
	ParamDO:        {"do", "dissolved_oxygen", "d_o"},
	ParamBOD:       {"bod", "b_o_d", "biochemical_oxygen_demand"},
	ParamPH:        {"ph", "p_h"},
	ParamColiforms: {"total_coliform", "coliform", "total_coliforms"},
}

// timestampVariants lists the source column names that may carry the sample
// date, in priority order. The value is kept as an opaque string.
var timestampVariants = []string{"date", "sample_date", "timestamp"}

// nonNumericRe strips everything that cannot be part of a numeric literal:
// digits, sign, decimal point, and exponent markers survive.
var nonNumericRe = regexp.MustCompile(`[^0-9+\-.eE]`)

// Normalize maps a raw upstream record onto the canonical sample shape.
// Every field-name variant is tried in order; the first that coerces to a
// finite number wins. Missing or unparsable fields stay nil.
func Normalize(rec RawRecord) Sample {
	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		fields[strings.ToLower(strings.TrimSpace(k))] = v
	}

	var s Sample
	s.DO = lookupNumeric(fields, fieldVariants[ParamDO])
	s.BOD = lookupNumeric(fields, fieldVariants[ParamBOD])
	s.PH = lookupNumeric(fields, fieldVariants[ParamPH])
	s.Coliforms = lookupNumeric(fields, fieldVariants[ParamColiforms])

	for _, name := range timestampVariants {
		if v, ok := fields[name]; ok {
			if str, ok := v.(string); ok && strings.TrimSpace(str) != "" {
				s.Timestamp = strings.TrimSpace(str)
				break
			}
		}
	}
	return s
}

// SelectBest normalizes every record and returns the one with the highest
// completeness score. Only a strictly greater score replaces the current
// best, so ties go to the first-seen record. Returns false for empty input.
func SelectBest(records []RawRecord) (Sample, bool) {
	if len(records) == 0 {
		return Sample{}, false
	}

	best := Normalize(records[0])
	bestScore := best.Completeness()
	for _, rec := range records[1:] {
		s := Normalize(rec)
		if score := s.Completeness(); score > bestScore {
			best = s
			bestScore = score
		}
	}
	return best, true
}

func lookupNumeric(fields map[string]any, names []string) *float64 {
	for _, name := range names {
		if v, ok := fields[name]; ok {
			if n := coerceNumber(v); n != nil {
				return n
			}
		}
	}
	return nil
}

// coerceNumber converts an arbitrary upstream value to a float64. Strings
// are scrubbed of units and punctuation before parsing ("6.5 mg/l" → 6.5).
// Anything that does not end up a finite number is nil.
func coerceNumber(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		cleaned := nonNumericRe.ReplaceAllString(t, "")
		if cleaned == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
