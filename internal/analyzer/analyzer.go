// Package analyzer runs the financial engine over stored properties and
// maintains the cached analysis rows. The snapshots it writes are
// projections: the property record plus the engine always reproduce them.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/eodozzy/real-estate-investment-manager/internal/cache"
	"github.com/eodozzy/real-estate-investment-manager/internal/engine"
	"github.com/eodozzy/real-estate-investment-manager/internal/model"
	"github.com/eodozzy/real-estate-investment-manager/internal/money"
	"github.com/eodozzy/real-estate-investment-manager/internal/store"
)

const cacheTTL = 24 * time.Hour

// Analyzer computes and records four-pillars analyses.
type Analyzer struct {
	store       store.Store
	cache       cache.Cache
	assumptions engine.Assumptions
}

// New creates an Analyzer over the given store and cache.
func New(st store.Store, c cache.Cache, as engine.Assumptions) *Analyzer {
	return &Analyzer{store: st, cache: c, assumptions: as}
}

func cacheKey(propertyID string, year int) string {
	return fmt.Sprintf("analysis:%s:%d", propertyID, year)
}

// AnalyzeProperty loads the property, runs the engine for the given year,
// persists a snapshot, and populates the cache. Cached results are served
// when present.
func (a *Analyzer) AnalyzeProperty(ctx context.Context, propertyID string, year int) (*model.FourPillarsResult, error) {
	if val, ok := a.cache.Get(ctx, cacheKey(propertyID, year)); ok {
		var res model.FourPillarsResult
		if err := json.Unmarshal([]byte(val), &res); err == nil {
			return &res, nil
		}
		// Corrupt cache entry: drop it and recompute.
		_ = a.cache.Delete(ctx, cacheKey(propertyID, year))
	}

	prop, err := a.store.GetProperty(propertyID)
	if err != nil {
		return nil, err
	}
	res, err := a.analyze(prop, year)
	if err != nil {
		return nil, err
	}

	a.record(prop, res)

	if data, err := json.Marshal(res); err == nil {
		if err := a.cache.Set(ctx, cacheKey(propertyID, year), string(data), cacheTTL); err != nil {
			log.Printf("[WARN] cache analysis for %s: %v", propertyID, err)
		}
	}
	return res, nil
}

// Project runs a multi-year projection for a stored property. Projection
// results are not cached or snapshotted; they are presentation output.
func (a *Analyzer) Project(propertyID string, years int) ([]model.FourPillarsResult, error) {
	prop, err := a.store.GetProperty(propertyID)
	if err != nil {
		return nil, err
	}
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	return engine.Project(prop.Loan, a.assumptionsFor(prop), financials(prop), years)
}

// RecomputeAll re-analyzes year 1 for every stored property, refreshing
// the cached projection rows. Rows that fail keep their previous values;
// failures are reported, not fatal, so one bad record cannot stall a bulk
// recompute.
func (a *Analyzer) RecomputeAll(ctx context.Context) (computed int, failed int) {
	props, err := a.store.ListProperties("")
	if err != nil {
		log.Printf("[ERROR] list properties for recompute: %v", err)
		return 0, 0
	}
	for _, prop := range props {
		res, err := a.analyze(prop, 1)
		if err != nil {
			log.Printf("[WARN] recompute %s (%s): %v", prop.ID, prop.Address, err)
			failed++
			continue
		}
		a.record(prop, res)
		if data, err := json.Marshal(res); err == nil {
			_ = a.cache.Set(ctx, cacheKey(prop.ID, 1), string(data), cacheTTL)
		}
		computed++
	}
	return computed, failed
}

func (a *Analyzer) analyze(prop *model.Property, year int) (*model.FourPillarsResult, error) {
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	res, err := engine.AnalyzeYear(prop.Loan, a.assumptionsFor(prop), financials(prop), year)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", prop.ID, err)
	}
	return &res, nil
}

// assumptionsFor applies per-property overrides, currently the land split
// entered on the record, to the configured defaults.
func (a *Analyzer) assumptionsFor(prop *model.Property) engine.Assumptions {
	as := a.assumptions
	if prop.LandPct > 0 {
		as.LandPct = prop.LandPct
	}
	return as
}

// record writes the cent-rounded snapshot row. Failure to persist is not
// critical; the result is still returned to the caller.
func (a *Analyzer) record(prop *model.Property, res *model.FourPillarsResult) {
	capRate, err := engine.CapRate(res.NetOperatingIncome, prop.PurchasePrice)
	if err != nil {
		log.Printf("[WARN] cap rate for %s: %v", prop.ID, err)
	}
	coc, err := engine.CashOnCash(res.CashFlow, prop.TotalCashInvested)
	if err != nil {
		log.Printf("[WARN] cash-on-cash for %s: %v", prop.ID, err)
	}

	snap := &model.AnalysisSnapshot{
		ID:               uuid.NewString(),
		PropertyID:       prop.ID,
		AnalysisYear:     res.AnalysisYear,
		CashFlow:         money.RoundCents(res.CashFlow),
		PrincipalPaydown: money.RoundCents(res.PrincipalPaydown),
		Appreciation:     money.RoundCents(res.Appreciation),
		TaxBenefit:       money.RoundCents(res.TaxBenefit),
		TotalReturn:      money.RoundCents(res.TotalReturn),
		TotalReturnPct:   money.RoundTo(res.TotalReturnPct, 2),
		CapRate:          money.RoundTo(capRate, 2),
		CashOnCash:       money.RoundTo(coc, 2),
	}
	if err := a.store.RecordAnalysis(snap); err != nil {
		log.Printf("[WARN] record analysis for %s: %v", prop.ID, err)
	}
}

func financials(prop *model.Property) engine.PropertyFinancials {
	return engine.PropertyFinancials{
		PropertyValue:      prop.PurchasePrice,
		AnnualRentalIncome: prop.AnnualRentalIncome(),
		OperatingExpenses:  prop.AnnualExpenses,
		TotalCashInvested:  prop.TotalCashInvested,
	}
}
