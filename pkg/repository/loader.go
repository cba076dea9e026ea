package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/interfaces"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
)

// FileLoader loads the launch dataset from a local file. The format follows
// the file extension: .xlsx is read as a workbook, .tsv as tab separated and
// everything else as comma separated.
type FileLoader struct {
	path string
}

var _ interfaces.DatasetLoader = (*FileLoader)(nil)

// NewFileLoader creates a FileLoader for path
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load reads and validates the whole file. Any failure is tagged with
// model.ErrTagDataLoad; nothing is returned from a partially read file.
func (l *FileLoader) Load(ctx context.Context) (*model.Dataset, error) {
	logger := ctxlog.From(ctx)
	start := time.Now()

	if l.path == "" {
		return nil, goerr.New("dataset path is required", goerr.T(model.ErrTagDataLoad))
	}

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "dataset file not found",
				goerr.T(model.ErrTagDataLoad),
				goerr.V("path", l.path))
		}
		return nil, goerr.Wrap(err, "failed to open dataset file",
			goerr.T(model.ErrTagDataLoad),
			goerr.V("path", l.path))
	}
	defer f.Close()

	var records []model.LaunchRecord
	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".xlsx":
		records, err = readSpreadsheet(f)
	case ".tsv":
		records, err = readDelimited(f, '\t')
	default:
		records, err = readDelimited(f, ',')
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse dataset",
			goerr.T(model.ErrTagDataLoad),
			goerr.V("path", l.path))
	}

	dataset, err := model.NewDataset(records)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid dataset",
			goerr.T(model.ErrTagDataLoad),
			goerr.V("path", l.path))
	}

	low, high := dataset.PayloadBounds()
	logger.Info("Dataset loaded",
		"path", l.path,
		"records", dataset.Len(),
		"sites", len(dataset.Sites()),
		"payload_min", low,
		"payload_max", high,
		"duration", time.Since(start),
	)

	return dataset, nil
}

// LoadDataset is a shorthand for NewFileLoader(path).Load(ctx)
func LoadDataset(ctx context.Context, path string) (*model.Dataset, error) {
	return NewFileLoader(path).Load(ctx)
}
