package engine

import (
	"fmt"
	"math"

	"github.com/eodozzy/real-estate-investment-manager/internal/model"
)

// IRS straight-line depreciation period for residential rental property.
const DefaultDepreciationLifeYears = 27.5

// Assumptions carries the configurable analysis defaults. They are passed
// explicitly into each call so the engine stays free of process-wide state.
type Assumptions struct {
	MarginalTaxRate       float64 // fraction, e.g. 0.24
	DepreciationLifeYears float64
	LandPct               float64 // fraction of value attributed to land
	AppreciationRate      float64 // assumed annual growth, fraction
}

// DefaultAssumptions returns the standard analysis defaults.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		MarginalTaxRate:       0.24,
		DepreciationLifeYears: DefaultDepreciationLifeYears,
		LandPct:               0.20,
		AppreciationRate:      0.03,
	}
}

// PropertyFinancials is the income/expense side of an analysis, supplied
// by the caller alongside the loan terms.
type PropertyFinancials struct {
	PropertyValue      float64
	AnnualRentalIncome float64
	OperatingExpenses  float64
	TotalCashInvested  float64
}

// Analyze computes the four-pillars return breakdown from fully specified
// inputs. TotalReturn is the exact sum of the four components.
func Analyze(in model.PillarInputs) (model.FourPillarsResult, error) {
	var zero model.FourPillarsResult
	if in.AnnualRentalIncome < 0 || in.OperatingExpenses < 0 || in.AnnualDebtService < 0 {
		return zero, fmt.Errorf("%w: income, expenses and debt service must be non-negative", ErrInvalidInput)
	}
	if in.BuildingValue < 0 || in.DepreciationLifeYears <= 0 {
		return zero, fmt.Errorf("%w: building value must be non-negative and depreciation life positive", ErrInvalidInput)
	}
	if in.MarginalTaxRate < 0 || in.MarginalTaxRate >= 1 {
		return zero, fmt.Errorf("%w: marginal tax rate must be in [0,1), got %f", ErrInvalidInput, in.MarginalTaxRate)
	}
	if in.BeginningPropertyValue == 0 {
		return zero, fmt.Errorf("%w: beginning property value is zero, appreciation rate undefined", ErrDivisionUndefined)
	}
	if in.TotalCashInvested == 0 {
		return zero, fmt.Errorf("%w: total cash invested is zero, return percentage undefined", ErrDivisionUndefined)
	}

	noi := in.AnnualRentalIncome - in.OperatingExpenses
	cashFlow := noi - in.AnnualDebtService

	paydown := in.BeginningLoanBalance - in.EndingLoanBalance

	appreciation := in.EndingPropertyValue - in.BeginningPropertyValue
	appreciationRate := appreciation / in.BeginningPropertyValue * 100

	depreciation := in.BuildingValue / in.DepreciationLifeYears
	deductions := depreciation + in.AnnualMortgageInterest + in.OperatingExpenses
	taxBenefit := deductions * in.MarginalTaxRate

	total := cashFlow + paydown + appreciation + taxBenefit

	return model.FourPillarsResult{
		NetOperatingIncome:     noi,
		DebtService:            in.AnnualDebtService,
		CashFlow:               cashFlow,
		MonthlyCashFlow:        cashFlow / 12,
		BeginningLoanBalance:   in.BeginningLoanBalance,
		EndingLoanBalance:      in.EndingLoanBalance,
		PrincipalPaydown:       paydown,
		BeginningPropertyValue: in.BeginningPropertyValue,
		EndingPropertyValue:    in.EndingPropertyValue,
		Appreciation:           appreciation,
		AppreciationRate:       appreciationRate,
		DepreciationDeduction:  depreciation,
		InterestDeduction:      in.AnnualMortgageInterest,
		ExpenseDeductions:      in.OperatingExpenses,
		TotalDeductions:        deductions,
		TaxBenefit:             taxBenefit,
		TotalReturn:            total,
		TotalReturnPct:         total / in.TotalCashInvested * 100,
	}, nil
}

// AnalyzeYear derives the loan-dependent inputs (debt service, year
// interest, beginning/ending balances) from the amortization engine and
// runs the four-pillars analysis for the given 1-based year. The property
// value is grown by the assumed appreciation rate.
func AnalyzeYear(terms model.LoanTerms, as Assumptions, fin PropertyFinancials, year int) (model.FourPillarsResult, error) {
	var zero model.FourPillarsResult
	if year < 1 {
		return zero, fmt.Errorf("%w: analysis year must be >= 1, got %d", ErrInvalidInput, year)
	}

	payment, err := MonthlyPayment(terms)
	if err != nil {
		return zero, err
	}
	beginBalance, err := LoanBalanceAfter(terms, (year-1)*12)
	if err != nil {
		return zero, err
	}
	endBalance, err := LoanBalanceAfter(terms, year*12)
	if err != nil {
		return zero, err
	}
	interest, err := InterestPaidInYear(terms, year)
	if err != nil {
		return zero, err
	}

	debtService := payment * 12
	if year > terms.TermYears {
		debtService = 0
	}

	beginValue := fin.PropertyValue * math.Pow(1+as.AppreciationRate, float64(year-1))
	endValue := fin.PropertyValue * math.Pow(1+as.AppreciationRate, float64(year))

	life := as.DepreciationLifeYears
	if life == 0 {
		life = DefaultDepreciationLifeYears
	}

	result, err := Analyze(model.PillarInputs{
		AnnualRentalIncome:     fin.AnnualRentalIncome,
		OperatingExpenses:      fin.OperatingExpenses,
		AnnualDebtService:      debtService,
		BeginningLoanBalance:   beginBalance,
		EndingLoanBalance:      endBalance,
		BeginningPropertyValue: beginValue,
		EndingPropertyValue:    endValue,
		BuildingValue:          fin.PropertyValue * (1 - as.LandPct),
		DepreciationLifeYears:  life,
		AnnualMortgageInterest: interest,
		MarginalTaxRate:        as.MarginalTaxRate,
		TotalCashInvested:      fin.TotalCashInvested,
	})
	if err != nil {
		return zero, err
	}
	result.AnalysisYear = year
	return result, nil
}

// Project runs AnalyzeYear for years 1..years and returns the results in
// order.
func Project(terms model.LoanTerms, as Assumptions, fin PropertyFinancials, years int) ([]model.FourPillarsResult, error) {
	if years < 1 {
		return nil, fmt.Errorf("%w: projection must cover at least one year, got %d", ErrInvalidInput, years)
	}
	results := make([]model.FourPillarsResult, 0, years)
	for year := 1; year <= years; year++ {
		r, err := AnalyzeYear(terms, as, fin, year)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", year, err)
		}
		results = append(results, r)
	}
	return results, nil
}
