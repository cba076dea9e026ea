package usecase

import (
	"context"
	"math"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/interfaces"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// Dashboard serves chart figures for the loaded dataset
type Dashboard struct {
	dataset *model.Dataset
	config  *model.DashboardConfig
}

var _ interfaces.Dashboard = (*Dashboard)(nil)

// NewDashboard creates a Dashboard. A nil config uses the built-in defaults.
func NewDashboard(dataset *model.Dataset, config *model.DashboardConfig) (*Dashboard, error) {
	if dataset == nil {
		return nil, goerr.New("dataset is required")
	}

	cfg := model.DefaultDashboardConfig()
	if config != nil {
		c := *config
		c.ApplyDefaults()
		cfg = &c
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid dashboard config")
	}
	if !dataset.IsValidSelection(cfg.DefaultSite) {
		return nil, goerr.Wrap(model.ErrInvalidSelection, "default site is not in the dataset",
			goerr.V("site", cfg.DefaultSite))
	}

	return &Dashboard{
		dataset: dataset,
		config:  cfg,
	}, nil
}

// Dataset returns the dataset the dashboard is built on
func (d *Dashboard) Dataset() *model.Dataset {
	return d.dataset
}

// Options returns the selector options and slider settings
func (d *Dashboard) Options() *model.DashboardOptions {
	low, high := d.dataset.PayloadBounds()

	sites := make([]model.SiteOption, 0, len(d.dataset.Sites())+1)
	for _, site := range d.dataset.SiteOptions() {
		sites = append(sites, model.SiteOption{Label: site.String(), Value: site})
	}

	return &model.DashboardOptions{
		Title:       d.config.Title,
		Sites:       sites,
		DefaultSite: d.config.DefaultSite,
		PayloadSlider: model.PayloadSlider{
			Min:   low,
			Max:   high,
			Step:  d.config.PayloadStep,
			Value: model.PayloadRange{Low: low, High: high},
			Marks: sliderMarks(low, high, d.config.PayloadMarks),
		},
		RecordCount: d.dataset.Len(),
	}
}

// maxSliderMarks bounds the number of slider labels regardless of the
// dataset range
const maxSliderMarks = 100

// sliderMarks labels the slider every interval kg, plus both ends
func sliderMarks(low, high, interval float64) map[int]string {
	marks := make(map[int]string)
	add := func(v float64) {
		kg := int(math.Round(v))
		marks[kg] = strconv.Itoa(kg)
	}

	add(low)
	add(high)
	if interval <= 0 {
		return marks
	}
	if (high-low)/interval > maxSliderMarks {
		interval = math.Ceil((high-low)/maxSliderMarks/interval) * interval
	}
	for v := math.Ceil(low/interval) * interval; v <= high; v += interval {
		add(v)
	}
	return marks
}

// DefaultSelection returns the configured default site with the full payload range
func (d *Dashboard) DefaultSelection() model.Selection {
	sel := model.DefaultSelection(d.dataset)
	sel.Site = d.config.DefaultSite
	return sel
}

// ResolveSite checks that the site is selectable
func (d *Dashboard) ResolveSite(site types.SiteName) error {
	if !d.dataset.IsValidSelection(site) {
		return goerr.Wrap(model.ErrInvalidSelection, "unknown launch site",
			goerr.V("site", site))
	}
	return nil
}

// ResolvePayloadRange clamps the range to the dataset bounds. The result is
// always a subset of the requested range.
func (d *Dashboard) ResolvePayloadRange(payload model.PayloadRange) model.PayloadRange {
	if payload.IsEmpty() {
		return payload
	}
	low, high := d.dataset.PayloadBounds()
	return payload.Clamp(low, high)
}

// PieFigure builds the proportion chart for the site
func (d *Dashboard) PieFigure(ctx context.Context, site types.SiteName) (*model.PieFigure, error) {
	if err := d.ResolveSite(site); err != nil {
		return nil, err
	}

	fig := BuildPieFigure(d.dataset, site)
	ctxlog.From(ctx).Debug("Pie figure computed",
		"site", site,
		"slices", len(fig.Labels),
	)
	return fig, nil
}

// ScatterFigure builds the scatter chart for the site and payload range
func (d *Dashboard) ScatterFigure(ctx context.Context, site types.SiteName, payload model.PayloadRange) (*model.ScatterFigure, error) {
	if err := d.ResolveSite(site); err != nil {
		return nil, err
	}

	fig := BuildScatterFigure(d.dataset, site, d.ResolvePayloadRange(payload))
	ctxlog.From(ctx).Debug("Scatter figure computed",
		"site", site,
		"range", fig.Range,
		"points", fig.Total,
	)
	return fig, nil
}

// Snapshot builds both figures for a selection
func (d *Dashboard) Snapshot(ctx context.Context, sel model.Selection) (*model.Snapshot, error) {
	pie, err := d.PieFigure(ctx, sel.Site)
	if err != nil {
		return nil, err
	}
	scatter, err := d.ScatterFigure(ctx, sel.Site, sel.Payload)
	if err != nil {
		return nil, err
	}

	return &model.Snapshot{
		Selection: model.Selection{Site: sel.Site, Payload: scatter.Range},
		Pie:       pie,
		Scatter:   scatter,
	}, nil
}
