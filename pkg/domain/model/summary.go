package model

import "github.com/secmon-lab/launchboard/pkg/domain/types"

// GroupKey tells which field an OutcomeSummary is grouped by
type GroupKey string

const (
	GroupBySite  GroupKey = "site"
	GroupByClass GroupKey = "class"
)

// SummarySlice is one group of an OutcomeSummary
type SummarySlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// OutcomeSummary is the data behind the proportion chart. Grouped by site it
// holds success counts per site; grouped by class it holds record counts per
// outcome class of one site.
type OutcomeSummary struct {
	GroupBy GroupKey       `json:"group_by"`
	Slices  []SummarySlice `json:"slices"`
}

// IsEmpty returns true when there is nothing to chart
func (s *OutcomeSummary) IsEmpty() bool {
	return len(s.Slices) == 0
}

// Total returns the sum of all slice values
func (s *OutcomeSummary) Total() int {
	total := 0
	for _, slice := range s.Slices {
		total += slice.Value
	}
	return total
}

// Values returns the summary as a label -> value map
func (s *OutcomeSummary) Values() map[string]int {
	result := make(map[string]int, len(s.Slices))
	for _, slice := range s.Slices {
		result[slice.Label] = slice.Value
	}
	return result
}

// ScatterPoint is one launch projected onto the payload/outcome plane
type ScatterPoint struct {
	PayloadMassKg          float64               `json:"payload_mass_kg"`
	Outcome                types.OutcomeClass    `json:"class"`
	BoosterVersionCategory types.BoosterCategory `json:"booster_version_category"`

	Site           types.SiteName `json:"site"`
	FlightNumber   int            `json:"flight_number,omitempty"`
	BoosterVersion string         `json:"booster_version,omitempty"`
}

// PayloadStats describes the payload masses of a scatter subset
type PayloadStats struct {
	Count        int     `json:"count"`
	SuccessCount int     `json:"success_count"`
	SuccessRate  float64 `json:"success_rate"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	P25          float64 `json:"p25"`
	P75          float64 `json:"p75"`
}
