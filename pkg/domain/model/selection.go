package model

import (
	"log/slog"
	"math"

	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// DefaultPayloadStep is the granularity of the payload slider widget
const DefaultPayloadStep = 1000

// PayloadRange is a closed payload mass interval [Low, High]
type PayloadRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains checks if mass lies in the interval, both ends inclusive.
// A degenerate range (Low > High) contains nothing.
func (r PayloadRange) Contains(mass float64) bool {
	return mass >= r.Low && mass <= r.High
}

// IsEmpty returns true for a degenerate range (Low > High)
func (r PayloadRange) IsEmpty() bool {
	return r.Low > r.High
}

// Clamp intersects the range with [min, max]. The result never reaches past
// the requested bounds; a range lying outside [min, max] comes back empty.
func (r PayloadRange) Clamp(min, max float64) PayloadRange {
	return PayloadRange{
		Low:  math.Max(r.Low, min),
		High: math.Min(r.High, max),
	}
}

// Selection holds the current values of the two dashboard controls
type Selection struct {
	Site    types.SiteName `json:"site"`
	Payload PayloadRange   `json:"payload"`
}

// IsAllSites returns true when every site is selected
func (s Selection) IsAllSites() bool {
	return s.Site == AllSites
}

// LogValue returns structured log value
func (s Selection) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("site", s.Site.String()),
		slog.Float64("payload_low", s.Payload.Low),
		slog.Float64("payload_high", s.Payload.High),
	)
}

// DefaultSelection returns ALL sites and the full payload range of d
func DefaultSelection(d *Dataset) Selection {
	low, high := d.PayloadBounds()
	return Selection{
		Site:    AllSites,
		Payload: PayloadRange{Low: low, High: high},
	}
}
