package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/eodozzy/real-estate-investment-manager/internal/model"
)

const centTolerance = 0.01

func assertClose(t *testing.T, expected, actual, tolerance float64, description string) {
	t.Helper()
	if math.Abs(expected-actual) > tolerance {
		t.Errorf("%s: expected %.4f, got %.4f (diff %.4f)", description, expected, actual, actual-expected)
	}
}

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name     string
		terms    model.LoanTerms
		expected float64
	}{
		{"200k at 7% for 30y", model.LoanTerms{Principal: 200000, AnnualRate: 0.07, TermYears: 30}, 1330.60},
		{"200k at 6% for 30y", model.LoanTerms{Principal: 200000, AnnualRate: 0.06, TermYears: 30}, 1199.10},
		{"200k at 4% for 25y", model.LoanTerms{Principal: 200000, AnnualRate: 0.04, TermYears: 25}, 1055.67},
		{"300k at 5% for 30y", model.LoanTerms{Principal: 300000, AnnualRate: 0.05, TermYears: 30}, 1610.46},
		{"150k at 3.5% for 20y", model.LoanTerms{Principal: 150000, AnnualRate: 0.035, TermYears: 20}, 869.94},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, err := MonthlyPayment(tt.terms)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertClose(t, tt.expected, payment, centTolerance, "monthly payment")
		})
	}
}

func TestMonthlyPayment_ZeroRate(t *testing.T) {
	terms := model.LoanTerms{Principal: 120000, AnnualRate: 0, TermYears: 10}
	payment, err := MonthlyPayment(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment != 120000.0/120 {
		t.Errorf("expected linear payment %.2f, got %.2f", 120000.0/120, payment)
	}
}

func TestMonthlyPayment_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		terms model.LoanTerms
	}{
		{"zero principal", model.LoanTerms{Principal: 0, AnnualRate: 0.05, TermYears: 30}},
		{"negative principal", model.LoanTerms{Principal: -1000, AnnualRate: 0.05, TermYears: 30}},
		{"zero term", model.LoanTerms{Principal: 100000, AnnualRate: 0.05, TermYears: 0}},
		{"negative rate", model.LoanTerms{Principal: 100000, AnnualRate: -0.01, TermYears: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := MonthlyPayment(tt.terms); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBuildSchedule_FirstPeriod(t *testing.T) {
	terms := model.LoanTerms{Principal: 200000, AnnualRate: 0.07, TermYears: 30}
	seq, err := BuildSchedule(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for e := range seq {
		if e.Period != 1 {
			t.Fatalf("expected period 1 first, got %d", e.Period)
		}
		assertClose(t, 1166.67, e.Interest, centTolerance, "first period interest")
		assertClose(t, 163.93, e.Principal, centTolerance, "first period principal")
		break
	}
}

func TestBuildSchedule_Invariants(t *testing.T) {
	terms := []model.LoanTerms{
		{Principal: 200000, AnnualRate: 0.07, TermYears: 30},
		{Principal: 350000, AnnualRate: 0.045, TermYears: 15},
		{Principal: 90000, AnnualRate: 0, TermYears: 5},
		{Principal: 123456.78, AnnualRate: 0.0625, TermYears: 30},
	}
	for _, tm := range terms {
		entries, err := ScheduleEntries(tm)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != tm.Periods() {
			t.Fatalf("expected %d entries, got %d", tm.Periods(), len(entries))
		}

		var principalSum float64
		prevBalance := tm.Principal
		for _, e := range entries {
			principalSum += e.Principal
			if e.RemainingBalance >= prevBalance {
				t.Fatalf("period %d: balance %.4f did not decrease from %.4f", e.Period, e.RemainingBalance, prevBalance)
			}
			prevBalance = e.RemainingBalance
			assertClose(t, e.Payment, e.Interest+e.Principal, 1e-9, "interest+principal equals payment")
		}

		assertClose(t, tm.Principal, principalSum, centTolerance, "principal portions sum to loan amount")
		last := entries[len(entries)-1]
		if last.RemainingBalance != 0 {
			t.Errorf("final balance must be exactly 0, got %v", last.RemainingBalance)
		}
	}
}

func TestBuildSchedule_ZeroRate(t *testing.T) {
	terms := model.LoanTerms{Principal: 60000, AnnualRate: 0, TermYears: 5}
	entries, err := ScheduleEntries(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range entries {
		if e.Interest != 0 {
			t.Fatalf("period %d: expected zero interest, got %v", e.Period, e.Interest)
		}
		assertClose(t, 1000, e.Payment, 1e-9, "zero-rate payment")
	}
}

func TestBuildSchedule_Restartable(t *testing.T) {
	terms := model.LoanTerms{Principal: 100000, AnnualRate: 0.05, TermYears: 10}
	seq, err := BuildSchedule(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != second || first != terms.Periods() {
		t.Errorf("sequence not restartable: first pass %d, second pass %d", first, second)
	}
}

func TestPrincipalPaidInYear(t *testing.T) {
	terms := model.LoanTerms{Principal: 200000, AnnualRate: 0.06, TermYears: 30}

	var total float64
	for year := 1; year <= terms.TermYears; year++ {
		paid, err := PrincipalPaidInYear(terms, year)
		if err != nil {
			t.Fatalf("year %d: unexpected error: %v", year, err)
		}
		total += paid
	}
	assertClose(t, terms.Principal, total, centTolerance, "per-year sums cover the full principal")

	// Past payoff contributes nothing.
	paid, err := PrincipalPaidInYear(terms, terms.TermYears+1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid != 0 {
		t.Errorf("expected 0 past payoff, got %v", paid)
	}

	if _, err := PrincipalPaidInYear(terms, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for year 0, got %v", err)
	}
}

func TestInterestPaidInYear_FirstYear(t *testing.T) {
	terms := model.LoanTerms{Principal: 200000, AnnualRate: 0.06, TermYears: 30}
	interest, err := InterestPaidInYear(terms, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// First-year interest on a 6% 30-year 200k loan is a bit under 12k.
	if interest < 11000 || interest > 12000 {
		t.Errorf("first-year interest out of expected band: %.2f", interest)
	}
}

func TestLoanBalanceAfter(t *testing.T) {
	terms := model.LoanTerms{Principal: 200000, AnnualRate: 0.06, TermYears: 30}

	b0, err := LoanBalanceAfter(terms, 0)
	if err != nil || b0 != terms.Principal {
		t.Fatalf("expected untouched balance %v, got %v (err %v)", terms.Principal, b0, err)
	}

	b12, _ := LoanBalanceAfter(terms, 12)
	b24, _ := LoanBalanceAfter(terms, 24)
	if !(b24 < b12 && b12 < terms.Principal) {
		t.Errorf("balance must strictly decrease: %v, %v, %v", terms.Principal, b12, b24)
	}

	bEnd, _ := LoanBalanceAfter(terms, terms.Periods())
	if bEnd != 0 {
		t.Errorf("expected zero balance at payoff, got %v", bEnd)
	}

	// Closed form agrees with the walked schedule.
	paid1, _ := PrincipalPaidInYear(terms, 1)
	assertClose(t, terms.Principal-paid1, b12, centTolerance, "closed-form balance matches schedule")

	// Zero-rate linear paydown.
	flat := model.LoanTerms{Principal: 120000, AnnualRate: 0, TermYears: 10}
	bFlat, _ := LoanBalanceAfter(flat, 12)
	assertClose(t, 120000*0.9, bFlat, 1e-9, "zero-rate balance")
}
