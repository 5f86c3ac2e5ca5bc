package cards

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"deskhub/pkg/ingest"
	"deskhub/pkg/model"
	"deskhub/pkg/store"
)

// DefaultSettleDelay is how long a freshly-fetched widget batch is held back
// before being exposed, so the dashboard does not flicker through partially
// loaded states.
const DefaultSettleDelay = 300 * time.Millisecond

// maxConcurrentFetches bounds parallel sheet fetches during widget loading.
const maxConcurrentFetches = 4

// Loader pulls manual cards and sheet widgets for a dashboard from the
// record store, re-ingesting widget data on the way through.
type Loader struct {
	store    store.Store
	ingest   *ingest.Client
	fallback string
	settle   time.Duration
	log      *zap.Logger
}

// NewLoader creates a card loader. fallback is the section name assigned to
// widgets that carry no category of their own.
func NewLoader(st store.Store, in *ingest.Client, fallback string, log *zap.Logger) *Loader {
	if fallback == "" {
		fallback = model.DefaultSectionName
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		store:    st,
		ingest:   in,
		fallback: fallback,
		settle:   DefaultSettleDelay,
		log:      log,
	}
}

// SetSettleDelay overrides the widget settle delay. Tests use zero.
func (l *Loader) SetSettleDelay(d time.Duration) {
	l.settle = d
}

// LoadManualCards loads the dashboard's user-authored cards in stored order.
func (l *Loader) LoadManualCards(ctx context.Context, dashboardID string) ([]model.Card, error) {
	return l.store.ListCards(ctx, dashboardID)
}

// LoadWidgets loads the dashboard's sheet widgets and re-ingests each one's
// table concurrently. A fetch failure leaves that widget without data rather
// than failing the batch; each widget missing a category is defaulted to the
// fallback section before being surfaced.
func (l *Loader) LoadWidgets(ctx context.Context, dashboardID, token string) ([]model.Card, error) {
	widgets, err := l.store.ListWidgets(ctx, dashboardID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i := range widgets {
		w := &widgets[i]
		g.Go(func() error {
			table, err := l.ingest.FetchTable(gctx, w.SheetURL, token)
			if err != nil {
				// Contained: the widget surfaces without data.
				l.log.Warn("widget ingest failed",
					zap.String("widget", w.ID), zap.Error(err))
				return nil
			}
			w.Data = table
			return nil
		})
	}
	// Goroutines never return errors; Wait is for completion only.
	_ = g.Wait()

	for i := range widgets {
		if widgets[i].Settings.Category == "" {
			widgets[i].Settings.Category = l.fallback
		}
	}

	// Hold the batch briefly so consumers see it settle as one update.
	if l.settle > 0 {
		select {
		case <-time.After(l.settle):
		case <-ctx.Done():
		}
	}

	return widgets, nil
}

// RefreshCard re-ingests a single data-bearing card's table. The caller is
// responsible for staleness checks against the card's revision before
// applying the result.
func (l *Loader) RefreshCard(ctx context.Context, card *model.Card, token string) (*model.Table, error) {
	if !card.DataBearing() {
		return nil, nil
	}
	return l.ingest.FetchTable(ctx, card.SheetURL, token)
}
