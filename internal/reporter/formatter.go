// Package reporter renders analysis results as plain text. This is the
// presentation boundary: amounts are rounded to the cent here, never in
// the engine.
package reporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/eodozzy/real-estate-investment-manager/internal/model"
	"github.com/eodozzy/real-estate-investment-manager/internal/money"
)

func dollars(v float64) string {
	rounded := money.RoundCents(v)
	if rounded < 0 {
		return fmt.Sprintf("-$%s", humanize.CommafWithDigits(-rounded, 2))
	}
	return fmt.Sprintf("$%s", humanize.CommafWithDigits(rounded, 2))
}

// FormatAnalysisReport renders a single-year four-pillars breakdown.
func FormatAnalysisReport(p *model.Property, res *model.FourPillarsResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Four Pillars Analysis | %s | Year %d\n", p.Address, res.AnalysisYear))
	b.WriteString(fmt.Sprintf("Status: %s | Purchase: %s\n\n", p.Status, dollars(p.PurchasePrice)))

	b.WriteString("Pillar 1: Cash Flow\n")
	b.WriteString(fmt.Sprintf("  NOI:           %s\n", dollars(res.NetOperatingIncome)))
	b.WriteString(fmt.Sprintf("  Debt service:  %s\n", dollars(res.DebtService)))
	b.WriteString(fmt.Sprintf("  Annual:        %s (%s/mo)\n", dollars(res.CashFlow), dollars(res.MonthlyCashFlow)))

	b.WriteString("Pillar 2: Principal Paydown\n")
	b.WriteString(fmt.Sprintf("  Balance:       %s -> %s\n", dollars(res.BeginningLoanBalance), dollars(res.EndingLoanBalance)))
	b.WriteString(fmt.Sprintf("  Paydown:       %s\n", dollars(res.PrincipalPaydown)))

	b.WriteString("Pillar 3: Appreciation\n")
	b.WriteString(fmt.Sprintf("  Value:         %s -> %s\n", dollars(res.BeginningPropertyValue), dollars(res.EndingPropertyValue)))
	b.WriteString(fmt.Sprintf("  Gain:          %s (%.2f%%)\n", dollars(res.Appreciation), res.AppreciationRate))

	b.WriteString("Pillar 4: Tax Benefit\n")
	b.WriteString(fmt.Sprintf("  Depreciation:  %s\n", dollars(res.DepreciationDeduction)))
	b.WriteString(fmt.Sprintf("  Interest:      %s\n", dollars(res.InterestDeduction)))
	b.WriteString(fmt.Sprintf("  Expenses:      %s\n", dollars(res.ExpenseDeductions)))
	b.WriteString(fmt.Sprintf("  Benefit:       %s\n\n", dollars(res.TaxBenefit)))

	b.WriteString(fmt.Sprintf("Total return:  %s (%.2f%% of cash invested)\n", dollars(res.TotalReturn), res.TotalReturnPct))

	return b.String()
}

// FormatProjectionTable renders a multi-year projection, one line per
// year.
func FormatProjectionTable(p *model.Property, results []model.FourPillarsResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d-Year Projection | %s\n\n", len(results), p.Address))
	b.WriteString("Year  Cash Flow      Paydown        Appreciation   Tax Benefit    Total Return\n")
	var cumulative float64
	for _, r := range results {
		cumulative += r.TotalReturn
		b.WriteString(fmt.Sprintf("%4d  %-14s %-14s %-14s %-14s %s (%.2f%%)\n",
			r.AnalysisYear, dollars(r.CashFlow), dollars(r.PrincipalPaydown),
			dollars(r.Appreciation), dollars(r.TaxBenefit), dollars(r.TotalReturn), r.TotalReturnPct))
	}
	b.WriteString(fmt.Sprintf("\nCumulative return: %s\n", dollars(cumulative)))
	return b.String()
}

// FormatPortfolioStatus renders the owned-portfolio aggregate.
func FormatPortfolioStatus(state *model.PortfolioState) string {
	var b strings.Builder
	b.WriteString("Portfolio Status\n\n")
	b.WriteString(fmt.Sprintf("Properties owned:    %d\n", state.PropertyCount))
	b.WriteString(fmt.Sprintf("Market value:        %s\n", dollars(state.TotalMarketValue)))
	b.WriteString(fmt.Sprintf("Loan balance:        %s\n", dollars(state.TotalLoanBalance)))
	b.WriteString(fmt.Sprintf("Equity:              %s\n", dollars(state.TotalEquity)))
	b.WriteString(fmt.Sprintf("Annual cash flow:    %s\n", dollars(state.AnnualCashFlow)))
	b.WriteString(fmt.Sprintf("Annual total return: %s\n", dollars(state.AnnualTotalReturn)))
	if !state.UpdatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Updated:             %s\n", state.UpdatedAt.Format(time.DateTime)))
	}
	return b.String()
}

// FormatImportSummary renders the result of a bulk import.
func FormatImportSummary(imported, skipped int, skipErrs []error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Imported %d properties, skipped %d rows\n", imported, skipped))
	for _, err := range skipErrs {
		b.WriteString(fmt.Sprintf("  skipped: %v\n", err))
	}
	return b.String()
}
