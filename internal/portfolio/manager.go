// Package portfolio tracks aggregate performance of owned properties in
// a JSON state file, refreshed from engine output after each recompute.
package portfolio

import (
	"log"
	"sync"

	"github.com/eodozzy/real-estate-investment-manager/internal/engine"
	"github.com/eodozzy/real-estate-investment-manager/internal/model"
	"github.com/eodozzy/real-estate-investment-manager/internal/store"
)

// Manager maintains the owned-portfolio state with concurrency safety.
type Manager struct {
	mu          sync.Mutex
	state       *model.PortfolioState
	filePath    string
	store       store.Store
	assumptions engine.Assumptions
}

// NewManager creates a Manager, loading any previous state from disk.
func NewManager(filePath string, st store.Store, as engine.Assumptions) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	return &Manager{state: state, filePath: filePath, store: st, assumptions: as}, nil
}

// GetState returns a copy of the current portfolio state.
func (m *Manager) GetState() model.PortfolioState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// Refresh recomputes the aggregate from every owned property and persists
// the new state. Properties whose analysis fails are skipped with a
// warning so one bad record cannot block the refresh.
func (m *Manager) Refresh() (model.PortfolioState, error) {
	owned, err := m.store.ListProperties(model.StatusOwned)
	if err != nil {
		return model.PortfolioState{}, err
	}

	next := model.PortfolioState{}
	for _, prop := range owned {
		as := m.assumptions
		if prop.LandPct > 0 {
			as.LandPct = prop.LandPct
		}
		res, err := engine.AnalyzeYear(prop.Loan, as, engine.PropertyFinancials{
			PropertyValue:      prop.PurchasePrice,
			AnnualRentalIncome: prop.AnnualRentalIncome(),
			OperatingExpenses:  prop.AnnualExpenses,
			TotalCashInvested:  prop.TotalCashInvested,
		}, 1)
		if err != nil {
			log.Printf("[WARN] portfolio refresh, skipping %s (%s): %v", prop.ID, prop.Address, err)
			continue
		}
		next.PropertyCount++
		next.TotalMarketValue += res.EndingPropertyValue
		next.TotalLoanBalance += res.EndingLoanBalance
		next.AnnualCashFlow += res.CashFlow
		next.AnnualTotalReturn += res.TotalReturn
	}
	next.TotalEquity = next.TotalMarketValue - next.TotalLoanBalance

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = &next
	if err := SaveState(m.filePath, m.state); err != nil {
		log.Printf("[ERROR] failed to save portfolio state: %v", err)
	}
	return *m.state, nil
}
