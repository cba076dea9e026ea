package usecase

import (
	"github.com/montanaflynn/stats"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
)

// ComputePayloadStats summarizes payload masses and outcomes of the points.
// No points yields zero stats.
func ComputePayloadStats(points []model.ScatterPoint) model.PayloadStats {
	var result model.PayloadStats
	if len(points) == 0 {
		return result
	}

	masses := make(stats.Float64Data, 0, len(points))
	for _, p := range points {
		masses = append(masses, p.PayloadMassKg)
		if p.Outcome.IsSuccess() {
			result.SuccessCount++
		}
	}

	result.Count = len(points)
	result.SuccessRate = float64(result.SuccessCount) / float64(result.Count)

	// Errors only occur on empty input, which is excluded above. Nearest rank
	// keeps quartiles defined for subsets of one or two launches.
	result.Min, _ = masses.Min()
	result.Max, _ = masses.Max()
	result.Mean, _ = masses.Mean()
	result.Median, _ = masses.Median()
	result.P25, _ = masses.PercentileNearestRank(25)
	result.P75, _ = masses.PercentileNearestRank(75)

	return result
}
