package engine

import (
	"fmt"
	"iter"
	"math"

	"github.com/eodozzy/real-estate-investment-manager/internal/model"
)

func validateTerms(terms model.LoanTerms) error {
	if terms.Principal <= 0 {
		return fmt.Errorf("%w: principal must be positive, got %.2f", ErrInvalidInput, terms.Principal)
	}
	if terms.TermYears <= 0 {
		return fmt.Errorf("%w: term must be positive, got %d years", ErrInvalidInput, terms.TermYears)
	}
	if terms.AnnualRate < 0 {
		return fmt.Errorf("%w: rate must be non-negative, got %f", ErrInvalidInput, terms.AnnualRate)
	}
	return nil
}

// MonthlyPayment returns the level monthly payment for a fixed-rate loan.
// A zero rate degenerates to pure linear paydown.
func MonthlyPayment(terms model.LoanTerms) (float64, error) {
	if err := validateTerms(terms); err != nil {
		return 0, err
	}
	n := float64(terms.Periods())
	if terms.AnnualRate == 0 {
		return terms.Principal / n, nil
	}
	rate := terms.MonthlyRate()
	return terms.Principal * rate / (1 - math.Pow(1+rate, -n)), nil
}

// BuildSchedule returns the full amortization schedule as a lazy,
// restartable sequence over periods 1..term*12. The final period's
// principal portion is set to the remaining balance, so the schedule
// always closes at exactly zero regardless of accumulated drift.
func BuildSchedule(terms model.LoanTerms) (iter.Seq[model.AmortizationEntry], error) {
	payment, err := MonthlyPayment(terms)
	if err != nil {
		return nil, err
	}
	n := terms.Periods()
	rate := terms.MonthlyRate()

	return func(yield func(model.AmortizationEntry) bool) {
		balance := terms.Principal
		for period := 1; period <= n; period++ {
			interest := balance * rate
			principal := payment - interest
			pay := payment
			if period == n {
				principal = balance
				pay = principal + interest
			}
			balance -= principal
			entry := model.AmortizationEntry{
				Period:           period,
				Payment:          pay,
				Interest:         interest,
				Principal:        principal,
				RemainingBalance: balance,
			}
			if !yield(entry) {
				return
			}
		}
	}, nil
}

// ScheduleEntries materializes the full schedule into a slice.
func ScheduleEntries(terms model.LoanTerms) ([]model.AmortizationEntry, error) {
	seq, err := BuildSchedule(terms)
	if err != nil {
		return nil, err
	}
	entries := make([]model.AmortizationEntry, 0, terms.Periods())
	for e := range seq {
		entries = append(entries, e)
	}
	return entries, nil
}

// PrincipalPaidInYear sums the principal portions of the 12 payments in
// the given 1-based year. Years past loan payoff contribute zero.
func PrincipalPaidInYear(terms model.LoanTerms, year int) (float64, error) {
	return sumYear(terms, year, func(e model.AmortizationEntry) float64 { return e.Principal })
}

// InterestPaidInYear sums the interest portions of the 12 payments in the
// given 1-based year. Years past loan payoff contribute zero.
func InterestPaidInYear(terms model.LoanTerms, year int) (float64, error) {
	return sumYear(terms, year, func(e model.AmortizationEntry) float64 { return e.Interest })
}

func sumYear(terms model.LoanTerms, year int, part func(model.AmortizationEntry) float64) (float64, error) {
	if year < 1 {
		return 0, fmt.Errorf("%w: year must be >= 1, got %d", ErrInvalidInput, year)
	}
	seq, err := BuildSchedule(terms)
	if err != nil {
		return 0, err
	}
	if year > terms.TermYears {
		return 0, nil
	}
	first := (year-1)*12 + 1
	last := year * 12
	sum := 0.0
	for e := range seq {
		if e.Period > last {
			break
		}
		if e.Period >= first {
			sum += part(e)
		}
	}
	return sum, nil
}

// LoanBalanceAfter returns the remaining balance after paymentsMade
// payments, using the closed form rather than walking the schedule.
func LoanBalanceAfter(terms model.LoanTerms, paymentsMade int) (float64, error) {
	if err := validateTerms(terms); err != nil {
		return 0, err
	}
	if paymentsMade < 0 {
		return 0, fmt.Errorf("%w: payments made must be non-negative, got %d", ErrInvalidInput, paymentsMade)
	}
	n := terms.Periods()
	if paymentsMade == 0 {
		return terms.Principal, nil
	}
	if paymentsMade >= n {
		return 0, nil
	}
	if terms.AnnualRate == 0 {
		return terms.Principal * float64(n-paymentsMade) / float64(n), nil
	}
	rate := terms.MonthlyRate()
	factor := math.Pow(1+rate, float64(n))
	paid := math.Pow(1+rate, float64(paymentsMade))
	return terms.Principal * (factor - paid) / (factor - 1), nil
}
