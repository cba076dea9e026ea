package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// AllSites is the site selection that matches every launch site
const AllSites types.SiteName = "ALL"

// Dataset is the immutable table of launch records. It is built once by
// NewDataset and only exposes read access, so it can be shared by every
// request without locking.
type Dataset struct {
	records []LaunchRecord
	sites   []types.SiteName
	siteSet map[types.SiteName]struct{}
	minMass float64
	maxMass float64
}

// NewDataset validates the records and builds a Dataset from a copy of them
func NewDataset(records []LaunchRecord) (*Dataset, error) {
	d := &Dataset{
		records: make([]LaunchRecord, len(records)),
		siteSet: make(map[types.SiteName]struct{}),
	}
	copy(d.records, records)

	for i := range d.records {
		r := &d.records[i]
		if err := r.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid launch record", goerr.V("index", i))
		}

		if r.Site == AllSites {
			return nil, goerr.New("launch site name collides with the ALL selection",
				goerr.V("index", i))
		}

		if _, ok := d.siteSet[r.Site]; !ok {
			d.siteSet[r.Site] = struct{}{}
			d.sites = append(d.sites, r.Site)
		}

		if i == 0 || r.PayloadMassKg < d.minMass {
			d.minMass = r.PayloadMassKg
		}
		if i == 0 || r.PayloadMassKg > d.maxMass {
			d.maxMass = r.PayloadMassKg
		}
	}

	return d, nil
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}

// Record returns the i-th record by value
func (d *Dataset) Record(i int) LaunchRecord {
	return d.records[i]
}

// Records returns a copy of all records in load order
func (d *Dataset) Records() []LaunchRecord {
	result := make([]LaunchRecord, len(d.records))
	copy(result, d.records)
	return result
}

// PayloadBounds returns the smallest and largest payload mass.
// An empty dataset yields (0, 0).
func (d *Dataset) PayloadBounds() (float64, float64) {
	return d.minMass, d.maxMass
}

// Sites returns distinct launch sites in first-appearance order
func (d *Dataset) Sites() []types.SiteName {
	result := make([]types.SiteName, len(d.sites))
	copy(result, d.sites)
	return result
}

// SiteOptions returns the selectable sites: ALL followed by Sites()
func (d *Dataset) SiteOptions() []types.SiteName {
	result := make([]types.SiteName, 0, len(d.sites)+1)
	result = append(result, AllSites)
	return append(result, d.sites...)
}

// HasSite checks if the site appears in the dataset
func (d *Dataset) HasSite(site types.SiteName) bool {
	_, ok := d.siteSet[site]
	return ok
}

// IsValidSelection checks if the site is ALL or a site of the dataset
func (d *Dataset) IsValidSelection(site types.SiteName) bool {
	return site == AllSites || d.HasSite(site)
}
