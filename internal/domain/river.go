package domain

// River is a single entry in the river directory. Entries are read-only and
// sourced from an external registry file; dataset ids point at upstream
// catalog resources known to carry samples for this river.
type River struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases"`
	DatasetIDs []string `json:"dataset_ids"`
}
