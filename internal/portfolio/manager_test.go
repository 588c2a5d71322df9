package portfolio

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/eodozzy/real-estate-investment-manager/internal/engine"
	"github.com/eodozzy/real-estate-investment-manager/internal/model"
	"github.com/eodozzy/real-estate-investment-manager/internal/store"
)

func ownedProperty(id string, price float64) *model.Property {
	return &model.Property{
		ID:                id,
		Address:           id + " Main St",
		Status:            model.StatusOwned,
		PurchasePrice:     price,
		MonthlyRent:       price / 120, // 1% rule-ish
		AnnualExpenses:    price * 0.03,
		TotalCashInvested: price * 0.22,
		Loan:              model.LoanTerms{Principal: price * 0.8, AnnualRate: 0.055, TermYears: 30},
	}
}

func TestRefresh_AggregatesOwned(t *testing.T) {
	st := store.NewMemoryStore()
	for _, p := range []*model.Property{
		ownedProperty("a", 300000),
		ownedProperty("b", 200000),
	} {
		if err := st.SaveProperty(p); err != nil {
			t.Fatal(err)
		}
	}
	// A candidate still being analyzed must not count.
	candidate := ownedProperty("c", 500000)
	candidate.Status = model.StatusAnalyzing
	if err := st.SaveProperty(candidate); err != nil {
		t.Fatal(err)
	}

	stateFile := filepath.Join(t.TempDir(), "portfolio.json")
	m, err := NewManager(stateFile, st, engine.DefaultAssumptions())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	state, err := m.Refresh()
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if state.PropertyCount != 2 {
		t.Fatalf("expected 2 owned properties, got %d", state.PropertyCount)
	}
	wantValue := 500000 * 1.03 // combined purchase price grown one year
	if math.Abs(state.TotalMarketValue-wantValue) > 0.01 {
		t.Errorf("expected market value %.2f, got %.2f", wantValue, state.TotalMarketValue)
	}
	if state.TotalEquity != state.TotalMarketValue-state.TotalLoanBalance {
		t.Error("equity must equal value minus debt")
	}
	if state.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set on save")
	}

	// State survives a reload from disk.
	m2, err := NewManager(stateFile, st, engine.DefaultAssumptions())
	if err != nil {
		t.Fatal(err)
	}
	if got := m2.GetState(); got.PropertyCount != 2 {
		t.Errorf("reloaded state lost properties: %+v", got)
	}
}

func TestRefresh_SkipsUnanalyzable(t *testing.T) {
	st := store.NewMemoryStore()
	good := ownedProperty("good", 300000)
	bad := ownedProperty("bad", 300000)
	bad.TotalCashInvested = 0 // return percentage undefined
	for _, p := range []*model.Property{good, bad} {
		if err := st.SaveProperty(p); err != nil {
			t.Fatal(err)
		}
	}

	m, err := NewManager(filepath.Join(t.TempDir(), "portfolio.json"), st, engine.DefaultAssumptions())
	if err != nil {
		t.Fatal(err)
	}
	state, err := m.Refresh()
	if err != nil {
		t.Fatal(err)
	}
	if state.PropertyCount != 1 {
		t.Errorf("expected the bad record skipped, got count %d", state.PropertyCount)
	}
}
