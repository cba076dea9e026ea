package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/interfaces"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// Binding ties the two selector values to the two charts. A change of the
// site recomputes both charts, a change of the payload range recomputes the
// scatter chart, and each result is pushed to the listeners of that chart.
//
// Updates are serialized: a change is recomputed and delivered before the next
// one starts. Listeners run while the binding is locked and must not call back
// into it.
type Binding struct {
	mu        sync.Mutex
	dashboard *Dashboard
	selection model.Selection
	pie       *model.PieFigure
	scatter   *model.ScatterFigure

	nextID           int
	pieListeners     map[int]interfaces.PieListener
	scatterListeners map[int]interfaces.ScatterListener

	done      chan struct{}
	closeOnce sync.Once
}

var _ interfaces.SelectionBinding = (*Binding)(nil)

// NewBinding creates a Binding starting from the initial selection
func NewBinding(ctx context.Context, dashboard *Dashboard, initial model.Selection) (*Binding, error) {
	if dashboard == nil {
		return nil, goerr.New("dashboard is required")
	}

	snapshot, err := dashboard.Snapshot(ctx, initial)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compute initial figures",
			goerr.V("selection", initial))
	}

	return &Binding{
		dashboard:        dashboard,
		selection:        snapshot.Selection,
		pie:              snapshot.Pie,
		scatter:          snapshot.Scatter,
		pieListeners:     make(map[int]interfaces.PieListener),
		scatterListeners: make(map[int]interfaces.ScatterListener),
		done:             make(chan struct{}),
	}, nil
}

// Done is closed once the binding is closed
func (b *Binding) Done() <-chan struct{} {
	return b.done
}

// Close drops every listener and closes Done. It is safe to call more than once.
func (b *Binding) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		clear(b.pieListeners)
		clear(b.scatterListeners)
		close(b.done)
	})
}

// Selection returns the current selector values
func (b *Binding) Selection() model.Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selection
}

// Snapshot returns the current selection with the latest figures
func (b *Binding) Snapshot() *model.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &model.Snapshot{
		Selection: b.selection,
		Pie:       b.pie,
		Scatter:   b.scatter,
	}
}

// OnPie registers a listener for recomputed proportion charts
func (b *Binding) OnPie(listener interfaces.PieListener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.pieListeners[id] = listener

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.pieListeners, id)
	}
}

// OnScatter registers a listener for recomputed scatter charts
func (b *Binding) OnScatter(listener interfaces.ScatterListener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.scatterListeners[id] = listener

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.scatterListeners, id)
	}
}

// SetSite changes the site selection. Setting the current site again is a no-op.
func (b *Binding) SetSite(ctx context.Context, site types.SiteName) error {
	if err := b.dashboard.ResolveSite(site); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.selection.Site == site {
		return nil
	}
	b.selection.Site = site

	ctxlog.From(ctx).Debug("Site selection changed", "selection", b.selection)

	b.pie = BuildPieFigure(b.dashboard.Dataset(), site)
	b.scatter = BuildScatterFigure(b.dashboard.Dataset(), site, b.selection.Payload)
	b.notifyPie(ctx)
	b.notifyScatter(ctx)
	return nil
}

// SetPayloadRange changes the payload range. The range is clamped to the
// dataset bounds; an unchanged range is a no-op.
func (b *Binding) SetPayloadRange(ctx context.Context, payload model.PayloadRange) error {
	payload = b.dashboard.ResolvePayloadRange(payload)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.selection.Payload == payload {
		return nil
	}
	b.selection.Payload = payload

	ctxlog.From(ctx).Debug("Payload range changed", "selection", b.selection)

	b.scatter = BuildScatterFigure(b.dashboard.Dataset(), b.selection.Site, payload)
	b.notifyScatter(ctx)
	return nil
}

func (b *Binding) notifyPie(ctx context.Context) {
	for _, listener := range b.pieListeners {
		listener(ctx, b.pie)
	}
}

func (b *Binding) notifyScatter(ctx context.Context) {
	for _, listener := range b.scatterListeners {
		listener(ctx, b.scatter)
	}
}
