package usecase

import (
	"fmt"

	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// Axis labels of the scatter chart, named after the dataset columns
const (
	scatterXAxis = model.ColumnPayloadMass
	scatterYAxis = model.ColumnClass
)

// chartPalette is assigned to slices and series in order
var chartPalette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

func paletteColor(i int) string {
	return chartPalette[i%len(chartPalette)]
}

// BuildPieFigure computes the outcome summary for site and lays it out as a
// proportion chart
func BuildPieFigure(ds *model.Dataset, site types.SiteName) *model.PieFigure {
	summary := ComputeOutcomeSummary(ds, site)

	title := "Total Success Launches By Sites"
	if site != model.AllSites {
		title = fmt.Sprintf("Total Success Launches for %s", site)
	}

	fig := &model.PieFigure{
		Title:   title,
		GroupBy: summary.GroupBy,
		Labels:  make([]string, 0, len(summary.Slices)),
		Values:  make([]int, 0, len(summary.Slices)),
		Colors:  make([]string, 0, len(summary.Slices)),
		Summary: summary,
	}
	for i, slice := range summary.Slices {
		fig.Labels = append(fig.Labels, slice.Label)
		fig.Values = append(fig.Values, slice.Value)
		fig.Colors = append(fig.Colors, paletteColor(i))
	}

	return fig
}

// BuildScatterFigure computes the scatter points for the selection and groups
// them into one series per booster version category, in first-appearance order
func BuildScatterFigure(ds *model.Dataset, site types.SiteName, payload model.PayloadRange) *model.ScatterFigure {
	points := ComputeScatterPoints(ds, site, payload)

	title := "Correlation between Payload and Success for All Sites"
	if site != model.AllSites {
		title = fmt.Sprintf("Correlation between Payload and Success for %s", site)
	}

	fig := &model.ScatterFigure{
		Title:  title,
		XAxis:  scatterXAxis,
		YAxis:  scatterYAxis,
		Range:  payload,
		Series: []model.ScatterSeries{},
		Stats:  ComputePayloadStats(points),
		Total:  len(points),
	}

	index := make(map[types.BoosterCategory]int)
	for _, p := range points {
		pos, ok := index[p.BoosterVersionCategory]
		if !ok {
			pos = len(fig.Series)
			index[p.BoosterVersionCategory] = pos
			fig.Series = append(fig.Series, model.ScatterSeries{
				Name:  p.BoosterVersionCategory.String(),
				Color: paletteColor(pos),
			})
		}
		fig.Series[pos].Points = append(fig.Series[pos].Points, p)
	}

	return fig
}
