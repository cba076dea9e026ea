package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/cli/config"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

type summaryOutput struct {
	Options  *model.DashboardOptions `json:"options"`
	Snapshot *model.Snapshot         `json:"snapshot"`
}

func cmdSummary() *cli.Command {
	var (
		datasetCfg   config.Dataset
		dashboardCfg config.Dashboard
		site         string
		payloadLow   float64
		payloadHigh  float64
	)

	flags := joinFlags(
		datasetCfg.Flags(),
		dashboardCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "site",
				Usage:       "Launch site to summarize (ALL for every site, default is the dashboard's default site)",
				Category:    "Selection",
				Destination: &site,
			},
			&cli.FloatFlag{
				Name:        "payload-low",
				Usage:       "Lower payload bound in Kg (default is the dataset minimum)",
				Category:    "Selection",
				Destination: &payloadLow,
			},
			&cli.FloatFlag{
				Name:        "payload-high",
				Usage:       "Upper payload bound in Kg (default is the dataset maximum)",
				Category:    "Selection",
				Destination: &payloadHigh,
			},
		},
	)

	return &cli.Command{
		Name:  "summary",
		Usage: "Print the dashboard options and both charts for one selection as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			dashboard, err := configureDashboard(ctx, &datasetCfg, &dashboardCfg)
			if err != nil {
				return err
			}

			sel := dashboard.DefaultSelection()
			if site != "" {
				sel.Site = types.SiteName(site)
			}
			if c.IsSet("payload-low") {
				sel.Payload.Low = payloadLow
			}
			if c.IsSet("payload-high") {
				sel.Payload.High = payloadHigh
			}

			ctxlog.From(ctx).Debug("Computing summary", "selection", sel)

			snapshot, err := dashboard.Snapshot(ctx, sel)
			if err != nil {
				return goerr.Wrap(err, "failed to compute charts", goerr.V("selection", sel))
			}

			encoder := json.NewEncoder(c.Root().Writer)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(summaryOutput{
				Options:  dashboard.Options(),
				Snapshot: snapshot,
			}); err != nil {
				return goerr.Wrap(err, "failed to write summary")
			}
			return nil
		},
	}
}
