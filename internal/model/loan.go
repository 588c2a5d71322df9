package model

// LoanTerms describes a fixed-rate mortgage. AnnualRate is a fraction
// (0.07 means 7%), not a percentage.
type LoanTerms struct {
	Principal  float64 `json:"principal" yaml:"principal"`
	AnnualRate float64 `json:"annual_rate" yaml:"annual_rate"`
	TermYears  int     `json:"term_years" yaml:"term_years"`
}

// Periods returns the total number of monthly payments.
func (t LoanTerms) Periods() int { return t.TermYears * 12 }

// MonthlyRate returns the periodic interest rate.
func (t LoanTerms) MonthlyRate() float64 { return t.AnnualRate / 12 }

// AmortizationEntry is one row of a payment schedule. Interest plus
// Principal equals Payment for every period; the final period absorbs
// rounding drift so RemainingBalance ends at exactly zero.
type AmortizationEntry struct {
	Period           int
	Payment          float64
	Interest         float64
	Principal        float64
	RemainingBalance float64
}
