// Package porter handles bulk CSV import and export of property records
// and schedule exports. Import recovery is row-level: a malformed row is
// skipped and reported, never silently dropped, and never aborts the
// batch.
package porter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/eodozzy/real-estate-investment-manager/internal/engine"
	"github.com/eodozzy/real-estate-investment-manager/internal/model"
	"github.com/eodozzy/real-estate-investment-manager/internal/money"
)

var propertyHeader = []string{
	"id", "address", "city", "state", "zip", "latitude", "longitude", "status",
	"purchase_price", "square_feet", "loan_principal", "loan_annual_rate",
	"loan_term_years", "monthly_rent", "annual_expenses", "land_pct",
	"total_cash_invested",
}

// RowError records a skipped import row.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

// ImportResult is the outcome of a bulk property import.
type ImportResult struct {
	Properties []*model.Property
	Skipped    []RowError
}

// ImportProperties parses a property CSV. Rows with a blank id get a
// fresh UUID; rows with a blank status start as analyzing.
func ImportProperties(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"address", "purchase_price", "monthly_rent"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	result := &ImportResult{}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}
		p, err := parseRow(col, record)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}
		result.Properties = append(result.Properties, p)
	}
	return result, nil
}

func parseRow(col map[string]int, record []string) (*model.Property, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	num := func(name string) (float64, error) {
		s := field(name)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", name, err)
		}
		return v, nil
	}

	p := &model.Property{
		ID:      field("id"),
		Address: field("address"),
		City:    field("city"),
		State:   field("state"),
		Zip:     field("zip"),
		Status:  model.PropertyStatus(field("status")),
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = model.StatusAnalyzing
	}

	var err error
	if p.Latitude, err = num("latitude"); err != nil {
		return nil, err
	}
	if p.Longitude, err = num("longitude"); err != nil {
		return nil, err
	}
	if p.PurchasePrice, err = num("purchase_price"); err != nil {
		return nil, err
	}
	if p.SquareFeet, err = num("square_feet"); err != nil {
		return nil, err
	}
	if p.Loan.Principal, err = num("loan_principal"); err != nil {
		return nil, err
	}
	if p.Loan.AnnualRate, err = num("loan_annual_rate"); err != nil {
		return nil, err
	}
	termYears, err := num("loan_term_years")
	if err != nil {
		return nil, err
	}
	p.Loan.TermYears = int(termYears)
	if p.MonthlyRent, err = num("monthly_rent"); err != nil {
		return nil, err
	}
	if p.AnnualExpenses, err = num("annual_expenses"); err != nil {
		return nil, err
	}
	if p.LandPct, err = num("land_pct"); err != nil {
		return nil, err
	}
	if p.TotalCashInvested, err = num("total_cash_invested"); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ExportProperties writes the property CSV with the same columns the
// importer reads.
func ExportProperties(w io.Writer, props []*model.Property) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(propertyHeader); err != nil {
		return err
	}
	for _, p := range props {
		record := []string{
			p.ID, p.Address, p.City, p.State, p.Zip,
			formatFloat(p.Latitude), formatFloat(p.Longitude), string(p.Status),
			formatMoney(p.PurchasePrice), formatFloat(p.SquareFeet),
			formatMoney(p.Loan.Principal), formatFloat(p.Loan.AnnualRate),
			strconv.Itoa(p.Loan.TermYears), formatMoney(p.MonthlyRent),
			formatMoney(p.AnnualExpenses), formatFloat(p.LandPct),
			formatMoney(p.TotalCashInvested),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportSchedule writes a full amortization table, rounded to the cent.
func ExportSchedule(w io.Writer, terms model.LoanTerms) error {
	seq, err := engine.BuildSchedule(terms)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "payment", "interest", "principal", "remaining_balance"}); err != nil {
		return err
	}
	for e := range seq {
		record := []string{
			strconv.Itoa(e.Period),
			formatMoney(e.Payment),
			formatMoney(e.Interest),
			formatMoney(e.Principal),
			formatMoney(e.RemainingBalance),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(money.RoundCents(v), 'f', 2, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
