package engine

import (
	"fmt"
	"math"
)

// CapRate returns annual NOI over purchase price as a percentage. NOI
// excludes debt service.
func CapRate(annualNOI, purchasePrice float64) (float64, error) {
	if purchasePrice == 0 {
		return 0, fmt.Errorf("%w: purchase price is zero", ErrDivisionUndefined)
	}
	return annualNOI / purchasePrice * 100, nil
}

// CashOnCash returns annual cash flow over total cash invested as a
// percentage.
func CashOnCash(annualCashFlow, totalCashInvested float64) (float64, error) {
	if totalCashInvested == 0 {
		return 0, fmt.Errorf("%w: total cash invested is zero", ErrDivisionUndefined)
	}
	return annualCashFlow / totalCashInvested * 100, nil
}

// DebtServiceCoverage returns annual NOI over annual debt service.
func DebtServiceCoverage(annualNOI, annualDebtService float64) (float64, error) {
	if annualDebtService == 0 {
		return 0, fmt.Errorf("%w: annual debt service is zero", ErrDivisionUndefined)
	}
	return annualNOI / annualDebtService, nil
}

// LoanToValue returns the loan balance over property value as a percentage.
func LoanToValue(loanBalance, propertyValue float64) (float64, error) {
	if propertyValue == 0 {
		return 0, fmt.Errorf("%w: property value is zero", ErrDivisionUndefined)
	}
	return loanBalance / propertyValue * 100, nil
}

// BreakEvenRatio returns total outgoings (operating expenses plus debt
// service) over gross rental income as a percentage.
func BreakEvenRatio(totalOutgoings, grossRentalIncome float64) (float64, error) {
	if grossRentalIncome == 0 {
		return 0, fmt.Errorf("%w: gross rental income is zero", ErrDivisionUndefined)
	}
	return totalOutgoings / grossRentalIncome * 100, nil
}

// OperatingExpenseRatio returns operating expenses (excluding debt
// service) over gross rental income as a percentage.
func OperatingExpenseRatio(operatingExpenses, grossRentalIncome float64) (float64, error) {
	if grossRentalIncome == 0 {
		return 0, fmt.Errorf("%w: gross rental income is zero", ErrDivisionUndefined)
	}
	return operatingExpenses / grossRentalIncome * 100, nil
}

// RentalYield returns annual rental income over property value as a
// percentage. Pass NOI instead of gross income for net yield.
func RentalYield(annualRentalIncome, propertyValue float64) (float64, error) {
	if propertyValue == 0 {
		return 0, fmt.Errorf("%w: property value is zero", ErrDivisionUndefined)
	}
	return annualRentalIncome / propertyValue * 100, nil
}

// PricePerSquareFoot returns price over square footage.
func PricePerSquareFoot(price, squareFeet float64) (float64, error) {
	if squareFeet == 0 {
		return 0, fmt.Errorf("%w: square footage is zero", ErrDivisionUndefined)
	}
	return price / squareFeet, nil
}

// AnnualizedAppreciationRate returns the compound annual growth rate
// between two property values as a percentage.
func AnnualizedAppreciationRate(initialValue, finalValue, years float64) (float64, error) {
	if initialValue == 0 {
		return 0, fmt.Errorf("%w: initial value is zero", ErrDivisionUndefined)
	}
	if initialValue < 0 || finalValue < 0 || years <= 0 {
		return 0, fmt.Errorf("%w: values must be non-negative and years positive", ErrInvalidInput)
	}
	if finalValue == 0 {
		return -100, nil
	}
	return (math.Pow(finalValue/initialValue, 1/years) - 1) * 100, nil
}

// FutureValue compounds a present value forward at the given annual rate.
func FutureValue(presentValue, annualRate, years float64) float64 {
	if years <= 0 {
		return presentValue
	}
	return presentValue * math.Pow(1+annualRate, years)
}

// PresentValue discounts a future value back at the given annual rate.
func PresentValue(futureValue, annualRate, years float64) float64 {
	if years <= 0 || annualRate <= 0 {
		return futureValue
	}
	return futureValue / math.Pow(1+annualRate, years)
}

// IRR finds the internal rate of return of a cash flow series (index 0 is
// the initial outflow, typically negative) by Newton-Raphson. Returns
// ErrInvalidInput when no solution converges.
func IRR(cashFlows []float64) (float64, error) {
	const (
		precision     = 1e-4
		maxIterations = 1000
	)
	if len(cashFlows) < 2 {
		return 0, fmt.Errorf("%w: need at least two cash flows, got %d", ErrInvalidInput, len(cashFlows))
	}

	rate := 0.1
	for iter := 0; iter < maxIterations; iter++ {
		var npv, derivative float64
		for i, cf := range cashFlows {
			npv += cf / math.Pow(1+rate, float64(i))
			if i > 0 {
				derivative -= float64(i) * cf / math.Pow(1+rate, float64(i+1))
			}
		}
		if math.Abs(npv) < precision {
			return rate, nil
		}
		if derivative == 0 {
			break
		}
		next := rate - npv/derivative
		if next < -0.99 || next > 10 {
			break
		}
		rate = next
	}
	return 0, fmt.Errorf("%w: IRR did not converge", ErrInvalidInput)
}
