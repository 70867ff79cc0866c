package domain

// Status is the outcome class of a lookup.
type Status string

const (
	StatusOK         Status = "ok"
	StatusComingSoon Status = "coming_soon" // river resolved, no upstream data yet
	StatusError      Status = "error"
)

// Result is the response body for a river lookup. Cached results are
// returned verbatim until expiry, so the struct is treated as immutable
// once built.
type Result struct {
	River      string                `json:"river"`
	Status     Status                `json:"status"`
	RWQI       *float64              `json:"rwqi,omitempty"`
	Category   *string               `json:"category,omitempty"`
	Subindices map[Parameter]float64 `json:"subindices,omitempty"`
	Parameters *Sample               `json:"parameters,omitempty"`
	Error      string                `json:"error,omitempty"`
}
