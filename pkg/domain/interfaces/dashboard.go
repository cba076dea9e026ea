package interfaces

import (
	"context"

	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// Dashboard computes the dashboard options and chart figures from the dataset
type Dashboard interface {
	Options() *model.DashboardOptions
	DefaultSelection() model.Selection
	PieFigure(ctx context.Context, site types.SiteName) (*model.PieFigure, error)
	ScatterFigure(ctx context.Context, site types.SiteName, payload model.PayloadRange) (*model.ScatterFigure, error)
}

// PieListener receives the proportion chart after a recomputation
type PieListener func(ctx context.Context, fig *model.PieFigure)

// ScatterListener receives the scatter chart after a recomputation
type ScatterListener func(ctx context.Context, fig *model.ScatterFigure)

// SelectionBinding holds the live selector values of one dashboard and
// pushes recomputed figures to its listeners whenever they change
type SelectionBinding interface {
	Selection() model.Selection
	Snapshot() *model.Snapshot
	SetSite(ctx context.Context, site types.SiteName) error
	SetPayloadRange(ctx context.Context, payload model.PayloadRange) error
	OnPie(listener PieListener) (unsubscribe func())
	OnScatter(listener ScatterListener) (unsubscribe func())
	// Done is closed when the session owning the binding ends
	Done() <-chan struct{}
}

// SessionStore keeps one SelectionBinding per dashboard session
type SessionStore interface {
	Create(ctx context.Context) (types.SessionID, SelectionBinding, error)
	Get(ctx context.Context, id types.SessionID) (SelectionBinding, error)
	Delete(ctx context.Context, id types.SessionID) error
}
