package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"ge-lookup/internal/catalog"
	"ge-lookup/internal/health"
	"ge-lookup/internal/provider"
)

// ErrCatalogLoad marks a load that failed because the required catalog fetch
// failed. Price and attribute outages never produce it.
var ErrCatalogLoad = errors.New("catalog load failed")

// Aggregator orchestrates the concurrent fetch of the three sources and owns
// the merged state: the catalog index plus the price and attribute side
// tables keyed by item id. The catalog is required; prices and attributes are
// best-effort enrichments whose absence degrades the view, not the load.
type Aggregator struct {
	catalogSrc provider.CatalogProvider
	priceSrc   provider.PriceProvider
	attrSrc    provider.AttributeProvider
	index      *catalog.Index
	tracker    *health.Tracker
	logger     zerolog.Logger

	mu        sync.RWMutex
	gen       uint64
	committed uint64
	prices    map[int64]provider.PriceQuote
	attrs     map[int64]provider.AttributeRecord
}

// New constructs an aggregator writing into the given index and tracker.
func New(catalogSrc provider.CatalogProvider, priceSrc provider.PriceProvider, attrSrc provider.AttributeProvider, index *catalog.Index, tracker *health.Tracker, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		catalogSrc: catalogSrc,
		priceSrc:   priceSrc,
		attrSrc:    attrSrc,
		index:      index,
		tracker:    tracker,
		logger:     logger.With().Str("component", "aggregator").Logger(),
	}
}

// Load issues the three fetches concurrently, waits for all of them to
// settle, reports each outcome to the health tracker, and commits the merged
// snapshot wholesale.
//
// Each load carries a monotonically increasing generation; if a newer load
// already committed by the time a slow one finishes, the stale result is
// discarded instead of clobbering fresher data.
func (a *Aggregator) Load(ctx context.Context) error {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	var (
		wg      sync.WaitGroup
		entries []catalog.Entry
		quotes  map[int64]provider.PriceQuote
		records map[int64]provider.AttributeRecord

		catalogErr, priceErr, attrErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		entries, catalogErr = a.catalogSrc.FetchCatalog(ctx)
	}()
	go func() {
		defer wg.Done()
		quotes, priceErr = a.priceSrc.FetchPrices(ctx)
	}()
	go func() {
		defer wg.Done()
		records, attrErr = a.attrSrc.FetchAttributes(ctx)
	}()
	wg.Wait()

	a.tracker.Report(ctx, health.SourceCatalog, catalogErr)
	a.tracker.Report(ctx, health.SourcePrices, priceErr)
	a.tracker.Report(ctx, health.SourceAttributes, attrErr)

	if catalogErr != nil {
		return fmt.Errorf("%w: %v", ErrCatalogLoad, catalogErr)
	}

	if priceErr != nil {
		a.logger.Warn().Err(priceErr).Msg("price fetch failed; continuing without quotes")
		quotes = map[int64]provider.PriceQuote{}
	}
	if attrErr != nil {
		a.logger.Warn().Err(attrErr).Msg("attribute fetch failed; continuing without attributes")
		records = map[int64]provider.AttributeRecord{}
	}

	snap := catalog.NewSnapshot(entries)
	if !a.commit(gen, snap, quotes, records) {
		a.logger.Warn().Uint64("generation", gen).Msg("discarding stale load result")
		return nil
	}

	a.logger.Info().
		Uint64("generation", gen).
		Int("entries", snap.Len()).
		Int("quotes", len(quotes)).
		Int("attributes", len(records)).
		Msg("snapshot loaded")
	return nil
}

func (a *Aggregator) commit(gen uint64, snap *catalog.Snapshot, quotes map[int64]provider.PriceQuote, records map[int64]provider.AttributeRecord) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if gen <= a.committed {
		return false
	}
	a.committed = gen
	a.prices = quotes
	a.attrs = records
	a.index.Replace(snap)
	return true
}

// Price returns the quote for an id. Absence is a valid state meaning no
// recent trade data.
func (a *Aggregator) Price(id int64) (provider.PriceQuote, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	q, ok := a.prices[id]
	return q, ok
}

// Attributes returns the attribute record for an id. Absence is a valid
// state for cosmetic and non-equipable items.
func (a *Aggregator) Attributes(id int64) (provider.AttributeRecord, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	r, ok := a.attrs[id]
	return r, ok
}

// QuoteCount reports the number of quotes in the current table.
func (a *Aggregator) QuoteCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.prices)
}
