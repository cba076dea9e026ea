package model

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// Column names of the launch dataset
const (
	ColumnLaunchSite             = "Launch Site"
	ColumnPayloadMass            = "Payload Mass (kg)"
	ColumnClass                  = "class"
	ColumnBoosterVersionCategory = "Booster Version Category"

	// Optional columns carried into hover data when present
	ColumnFlightNumber   = "Flight Number"
	ColumnBoosterVersion = "Booster Version"
)

// RequiredColumns lists the columns every dataset must provide
var RequiredColumns = []string{
	ColumnLaunchSite,
	ColumnPayloadMass,
	ColumnClass,
	ColumnBoosterVersionCategory,
}

// LaunchRecord is one row of the launch dataset
type LaunchRecord struct {
	Site                   types.SiteName        `json:"site"`
	PayloadMassKg          float64               `json:"payload_mass_kg"`
	Outcome                types.OutcomeClass    `json:"class"`
	BoosterVersionCategory types.BoosterCategory `json:"booster_version_category"`

	FlightNumber   int    `json:"flight_number,omitempty"`
	BoosterVersion string `json:"booster_version,omitempty"`
}

// Validate validates the launch record
func (r *LaunchRecord) Validate() error {
	if r.Site == "" {
		return goerr.New("launch site is required")
	}
	if r.BoosterVersionCategory == "" {
		return goerr.New("booster version category is required")
	}
	if !r.Outcome.IsValid() {
		return goerr.New("invalid outcome class", goerr.V("class", r.Outcome))
	}
	if math.IsNaN(r.PayloadMassKg) || math.IsInf(r.PayloadMassKg, 0) {
		return goerr.New("payload mass must be a finite number",
			goerr.V("payload_mass_kg", r.PayloadMassKg))
	}
	if r.PayloadMassKg < 0 {
		return goerr.New("payload mass must not be negative",
			goerr.V("payload_mass_kg", r.PayloadMassKg))
	}
	return nil
}
