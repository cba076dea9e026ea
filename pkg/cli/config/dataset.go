package config

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Dataset holds the launch dataset location
type Dataset struct {
	Path string
}

// Flags returns CLI flags for Dataset configuration
func (d *Dataset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Aliases:     []string{"d"},
			Usage:       "Path to the launch dataset (.csv, .tsv or .xlsx)",
			Category:    "Dataset",
			Value:       "spacex_launch_dash.csv",
			Sources:     cli.EnvVars("LAUNCHBOARD_DATASET"),
			Destination: &d.Path,
		},
	}
}

// Configure loads the dataset. A load failure is fatal for the caller.
func (d *Dataset) Configure(ctx context.Context) (*model.Dataset, error) {
	return repository.NewFileLoader(d.Path).Load(ctx)
}

// LogValue returns structured log value
func (d Dataset) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", d.Path),
	)
}
