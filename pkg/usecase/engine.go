package usecase

import (
	"sort"

	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// ComputeOutcomeSummary derives the proportion chart data for a site selection.
//
// For ALL it sums the outcome class per site, which is the success count of
// each site, in first-appearance order. For a single site it counts that
// site's records per outcome class in ascending class order. No matching
// records yields an empty summary.
func ComputeOutcomeSummary(ds *model.Dataset, site types.SiteName) model.OutcomeSummary {
	if site == model.AllSites {
		return summarizeBySite(ds)
	}
	return summarizeByClass(ds, site)
}

func summarizeBySite(ds *model.Dataset) model.OutcomeSummary {
	summary := model.OutcomeSummary{GroupBy: model.GroupBySite, Slices: []model.SummarySlice{}}

	index := make(map[types.SiteName]int)
	for i := 0; i < ds.Len(); i++ {
		r := ds.Record(i)
		pos, ok := index[r.Site]
		if !ok {
			pos = len(summary.Slices)
			index[r.Site] = pos
			summary.Slices = append(summary.Slices, model.SummarySlice{Label: r.Site.String()})
		}
		summary.Slices[pos].Value += int(r.Outcome)
	}

	return summary
}

func summarizeByClass(ds *model.Dataset, site types.SiteName) model.OutcomeSummary {
	summary := model.OutcomeSummary{GroupBy: model.GroupByClass, Slices: []model.SummarySlice{}}

	counts := make(map[types.OutcomeClass]int)
	for i := 0; i < ds.Len(); i++ {
		r := ds.Record(i)
		if r.Site == site {
			counts[r.Outcome]++
		}
	}

	classes := make([]types.OutcomeClass, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool {
		return classes[i] < classes[j]
	})

	for _, c := range classes {
		summary.Slices = append(summary.Slices, model.SummarySlice{
			Label: c.String(),
			Value: counts[c],
		})
	}

	return summary
}

// ComputeScatterPoints returns the launches whose payload lies in the range,
// both ends inclusive, restricted to one site unless site is ALL. Load order
// is preserved. A degenerate range or no match yields an empty slice.
func ComputeScatterPoints(ds *model.Dataset, site types.SiteName, payload model.PayloadRange) []model.ScatterPoint {
	points := []model.ScatterPoint{}
	if payload.IsEmpty() {
		return points
	}

	for i := 0; i < ds.Len(); i++ {
		r := ds.Record(i)
		if !payload.Contains(r.PayloadMassKg) {
			continue
		}
		if site != model.AllSites && r.Site != site {
			continue
		}

		points = append(points, model.ScatterPoint{
			PayloadMassKg:          r.PayloadMassKg,
			Outcome:                r.Outcome,
			BoosterVersionCategory: r.BoosterVersionCategory,
			Site:                   r.Site,
			FlightNumber:           r.FlightNumber,
			BoosterVersion:         r.BoosterVersion,
		})
	}

	return points
}
