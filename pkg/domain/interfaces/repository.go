package interfaces

import (
	"context"

	"github.com/secmon-lab/launchboard/pkg/domain/model"
)

// DatasetLoader reads the launch dataset from its source. Failures are tagged
// with model.ErrTagDataLoad.
type DatasetLoader interface {
	Load(ctx context.Context) (*model.Dataset, error)
}
