package model

// PieFigure is the render-ready proportion chart
type PieFigure struct {
	Title   string         `json:"title"`
	GroupBy GroupKey       `json:"group_by"`
	Labels  []string       `json:"labels"`
	Values  []int          `json:"values"`
	Colors  []string       `json:"colors,omitempty"`
	Summary OutcomeSummary `json:"summary"`
}

// ScatterSeries holds the points of one booster version category
type ScatterSeries struct {
	Name   string         `json:"name"`
	Color  string         `json:"color"`
	Points []ScatterPoint `json:"points"`
}

// ScatterFigure is the render-ready payload/outcome scatter chart
type ScatterFigure struct {
	Title  string          `json:"title"`
	XAxis  string          `json:"x_axis"`
	YAxis  string          `json:"y_axis"`
	Range  PayloadRange    `json:"range"`
	Series []ScatterSeries `json:"series"`
	Stats  PayloadStats    `json:"stats"`
	Total  int             `json:"total"`
}

// Snapshot is the full dashboard state for one selection
type Snapshot struct {
	Selection Selection      `json:"selection"`
	Pie       *PieFigure     `json:"pie"`
	Scatter   *ScatterFigure `json:"scatter"`
}
