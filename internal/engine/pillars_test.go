package engine

import (
	"errors"
	"testing"

	"github.com/eodozzy/real-estate-investment-manager/internal/model"
)

func validInputs() model.PillarInputs {
	return model.PillarInputs{
		AnnualRentalIncome:     30000,
		OperatingExpenses:      9000,
		AnnualDebtService:      15969.73,
		BeginningLoanBalance:   240000,
		EndingLoanBalance:      237561.86,
		BeginningPropertyValue: 300000,
		EndingPropertyValue:    315000,
		BuildingValue:          240000,
		DepreciationLifeYears:  27.5,
		AnnualMortgageInterest: 13531.59,
		MarginalTaxRate:        0.24,
		TotalCashInvested:      66000,
	}
}

func TestAnalyze_Pillars(t *testing.T) {
	in := validInputs()
	res, err := Analyze(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertClose(t, 21000, res.NetOperatingIncome, centTolerance, "NOI")
	assertClose(t, 21000-in.AnnualDebtService, res.CashFlow, centTolerance, "cash flow")
	assertClose(t, res.CashFlow/12, res.MonthlyCashFlow, 1e-9, "monthly cash flow")
	assertClose(t, 2438.14, res.PrincipalPaydown, centTolerance, "principal paydown")
	assertClose(t, 15000, res.Appreciation, centTolerance, "appreciation")
	assertClose(t, 5.0, res.AppreciationRate, 1e-9, "appreciation rate")
	assertClose(t, 8727.27, res.DepreciationDeduction, centTolerance, "depreciation")

	wantDeductions := res.DepreciationDeduction + in.AnnualMortgageInterest + in.OperatingExpenses
	assertClose(t, wantDeductions, res.TotalDeductions, 1e-9, "total deductions")
	assertClose(t, wantDeductions*0.24, res.TaxBenefit, 1e-9, "tax benefit")
}

func TestAnalyze_TotalReturnIdentity(t *testing.T) {
	// The identity must hold exactly, not approximately.
	inputs := []model.PillarInputs{
		validInputs(),
		{
			AnnualRentalIncome:     12000,
			OperatingExpenses:      14000, // negative cash flow
			AnnualDebtService:      8000,
			BeginningLoanBalance:   100000,
			EndingLoanBalance:      98000,
			BeginningPropertyValue: 150000,
			EndingPropertyValue:    145000, // depreciation year
			BuildingValue:          100000,
			DepreciationLifeYears:  27.5,
			AnnualMortgageInterest: 5500,
			MarginalTaxRate:        0.32,
			TotalCashInvested:      30000,
		},
	}
	for _, in := range inputs {
		res, err := Analyze(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sum := res.CashFlow + res.PrincipalPaydown + res.Appreciation + res.TaxBenefit
		if res.TotalReturn != sum {
			t.Errorf("total return identity broken: %v != %v", res.TotalReturn, sum)
		}
		wantPct := res.TotalReturn / in.TotalCashInvested * 100
		if res.TotalReturnPct != wantPct {
			t.Errorf("return percentage mismatch: %v != %v", res.TotalReturnPct, wantPct)
		}
	}
}

func TestAnalyze_DivisionUndefined(t *testing.T) {
	zeroValue := validInputs()
	zeroValue.BeginningPropertyValue = 0
	if _, err := Analyze(zeroValue); !errors.Is(err, ErrDivisionUndefined) {
		t.Errorf("zero beginning value: expected ErrDivisionUndefined, got %v", err)
	}

	zeroInvested := validInputs()
	zeroInvested.TotalCashInvested = 0
	if _, err := Analyze(zeroInvested); !errors.Is(err, ErrDivisionUndefined) {
		t.Errorf("zero cash invested: expected ErrDivisionUndefined, got %v", err)
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.PillarInputs)
	}{
		{"negative income", func(in *model.PillarInputs) { in.AnnualRentalIncome = -1 }},
		{"negative expenses", func(in *model.PillarInputs) { in.OperatingExpenses = -1 }},
		{"zero depreciation life", func(in *model.PillarInputs) { in.DepreciationLifeYears = 0 }},
		{"tax rate over 100%", func(in *model.PillarInputs) { in.MarginalTaxRate = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInputs()
			tt.mutate(&in)
			if _, err := Analyze(in); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAnalyzeYear_CrossChecksSchedule(t *testing.T) {
	terms := model.LoanTerms{Principal: 240000, AnnualRate: 0.055, TermYears: 30}
	fin := PropertyFinancials{
		PropertyValue:      300000,
		AnnualRentalIncome: 30000,
		OperatingExpenses:  9000,
		TotalCashInvested:  66000,
	}
	as := DefaultAssumptions()

	res, err := AnalyzeYear(terms, as, fin, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Paydown from balances must match the schedule's per-year principal sum.
	paid, err := PrincipalPaidInYear(terms, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, paid, res.PrincipalPaydown, centTolerance, "paydown cross-check")

	payment, _ := MonthlyPayment(terms)
	assertClose(t, payment*12, res.DebtService, 1e-9, "debt service is 12 monthly payments")

	// Interest + principal for the year account for the full debt service.
	interest, _ := InterestPaidInYear(terms, 1)
	assertClose(t, res.DebtService, interest+paid, centTolerance, "year splits into interest and principal")

	assertClose(t, 300000*0.03, res.Appreciation, centTolerance, "assumed appreciation")
}

func TestAnalyzeYear_InvalidYear(t *testing.T) {
	terms := model.LoanTerms{Principal: 240000, AnnualRate: 0.055, TermYears: 30}
	_, err := AnalyzeYear(terms, DefaultAssumptions(), PropertyFinancials{PropertyValue: 1, TotalCashInvested: 1}, 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProject_MultiYear(t *testing.T) {
	terms := model.LoanTerms{Principal: 240000, AnnualRate: 0.055, TermYears: 30}
	fin := PropertyFinancials{
		PropertyValue:      300000,
		AnnualRentalIncome: 30000,
		OperatingExpenses:  9000,
		TotalCashInvested:  66000,
	}
	results, err := Project(terms, DefaultAssumptions(), fin, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 years, got %d", len(results))
	}
	for i, r := range results {
		if r.AnalysisYear != i+1 {
			t.Errorf("result %d has year %d", i, r.AnalysisYear)
		}
	}
	// Paydown accelerates and appreciation compounds year over year.
	if results[4].PrincipalPaydown <= results[0].PrincipalPaydown {
		t.Error("expected paydown to grow over the projection")
	}
	if results[4].Appreciation <= results[0].Appreciation {
		t.Error("expected appreciation to compound over the projection")
	}
	// Values chain: year 2 begins where year 1 ended.
	assertClose(t, results[0].EndingPropertyValue, results[1].BeginningPropertyValue, 1e-6, "value chain")
	assertClose(t, results[0].EndingLoanBalance, results[1].BeginningLoanBalance, 1e-6, "balance chain")
}
