package domain

// Parameter identifies one of the four canonical water-quality parameters.
type Parameter string

const (
	ParamDO        Parameter = "do"        // dissolved oxygen, mg/L
	ParamBOD       Parameter = "bod"       // biochemical oxygen demand, mg/L
	ParamPH        Parameter = "ph"        // acidity
	ParamColiforms Parameter = "coliforms" // total coliforms, MPN/100mL
)

// Parameters lists the canonical parameters in reporting order.
var Parameters = []Parameter{ParamDO, ParamBOD, ParamPH, ParamColiforms}

// RawRecord is an unprocessed row from an upstream catalog resource. Field
// names are publisher-dependent; values may be numbers, strings, or junk.
type RawRecord map[string]any

// Sample is the canonical shape of one water-quality reading. A nil field
// means the parameter was missing or unparsable in the source record.
type Sample struct {
	DO        *float64 `json:"do,omitempty"`
	BOD       *float64 `json:"bod,omitempty"`
	PH        *float64 `json:"ph,omitempty"`
	Coliforms *float64 `json:"coliforms,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"` // opaque upstream date string
}

// Value returns the sample's reading for a canonical parameter, or nil when
// the parameter is absent.
func (s Sample) Value(p Parameter) *float64 {
	switch p {
	case ParamDO:
		return s.DO
	case ParamBOD:
		return s.BOD
	case ParamPH:
		return s.PH
	case ParamColiforms:
		return s.Coliforms
	default:
		return nil
	}
}

// Completeness counts how many of the four canonical parameters are present.
func (s Sample) Completeness() int {
	n := 0
	for _, p := range Parameters {
		if s.Value(p) != nil {
			n++
		}
	}
	return n
}
