package model

import "time"

// PillarInputs holds everything the four-pillars calculation needs for a
// single analysis year. All monetary values are non-negative inputs;
// derived results may be negative.
type PillarInputs struct {
	AnnualRentalIncome     float64
	OperatingExpenses      float64
	AnnualDebtService      float64
	BeginningLoanBalance   float64
	EndingLoanBalance      float64
	BeginningPropertyValue float64
	EndingPropertyValue    float64
	BuildingValue          float64
	DepreciationLifeYears  float64
	AnnualMortgageInterest float64
	MarginalTaxRate        float64
	TotalCashInvested      float64
}

// FourPillarsResult is the additive return breakdown for one year.
// TotalReturn is always the exact sum of the four components. The result
// is a derived projection, recomputable from PillarInputs, never a source
// of truth.
type FourPillarsResult struct {
	AnalysisYear int

	// Pillar 1: cash flow
	NetOperatingIncome float64
	DebtService        float64
	CashFlow           float64
	MonthlyCashFlow    float64

	// Pillar 2: principal paydown
	BeginningLoanBalance float64
	EndingLoanBalance    float64
	PrincipalPaydown     float64

	// Pillar 3: appreciation
	BeginningPropertyValue float64
	EndingPropertyValue    float64
	Appreciation           float64
	AppreciationRate       float64 // percent over the year

	// Pillar 4: tax benefit
	DepreciationDeduction float64
	InterestDeduction     float64
	ExpenseDeductions     float64
	TotalDeductions       float64
	TaxBenefit            float64

	TotalReturn    float64
	TotalReturnPct float64 // percent of total cash invested
}

// AnalysisSnapshot is a cached projection row persisted alongside a
// property. Values are rounded to the cent at write time.
type AnalysisSnapshot struct {
	ID               string    `json:"id"`
	PropertyID       string    `json:"property_id"`
	AnalysisYear     int       `json:"analysis_year"`
	CashFlow         float64   `json:"cash_flow"`
	PrincipalPaydown float64   `json:"principal_paydown"`
	Appreciation     float64   `json:"appreciation"`
	TaxBenefit       float64   `json:"tax_benefit"`
	TotalReturn      float64   `json:"total_return"`
	TotalReturnPct   float64   `json:"total_return_pct"`
	CapRate          float64   `json:"cap_rate"`
	CashOnCash       float64   `json:"cash_on_cash"`
	ComputedAt       time.Time `json:"computed_at"`
}

// PortfolioState aggregates owned-property performance.
type PortfolioState struct {
	PropertyCount     int       `json:"property_count"`
	TotalMarketValue  float64   `json:"total_market_value"`
	TotalLoanBalance  float64   `json:"total_loan_balance"`
	TotalEquity       float64   `json:"total_equity"`
	AnnualCashFlow    float64   `json:"annual_cash_flow"`
	AnnualTotalReturn float64   `json:"annual_total_return"`
	UpdatedAt         time.Time `json:"updated_at"`
}
