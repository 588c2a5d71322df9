package model

import (
	"fmt"
	"time"
)

// PropertyStatus tracks a property through the acquisition pipeline.
type PropertyStatus string

const (
	StatusAnalyzing     PropertyStatus = "analyzing"
	StatusUnderContract PropertyStatus = "under_contract"
	StatusOwned         PropertyStatus = "owned"
)

// Valid reports whether s is one of the known statuses.
func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusAnalyzing, StatusUnderContract, StatusOwned:
		return true
	}
	return false
}

// CanTransitionTo reports whether the move from s to next is legal.
// Forward moves only, plus under_contract back to analyzing when a deal
// falls through.
func (s PropertyStatus) CanTransitionTo(next PropertyStatus) bool {
	switch s {
	case StatusAnalyzing:
		return next == StatusUnderContract
	case StatusUnderContract:
		return next == StatusOwned || next == StatusAnalyzing
	case StatusOwned:
		return false
	}
	return false
}

// Property is a candidate or owned investment property. All monetary
// fields are annual unless named otherwise.
type Property struct {
	ID                string         `json:"id"`
	Address           string         `json:"address"`
	City              string         `json:"city"`
	State             string         `json:"state"`
	Zip               string         `json:"zip"`
	Latitude          float64        `json:"latitude"`
	Longitude         float64        `json:"longitude"`
	Status            PropertyStatus `json:"status"`
	PurchasePrice     float64        `json:"purchase_price"`
	SquareFeet        float64        `json:"square_feet"`
	Loan              LoanTerms      `json:"loan"`
	MonthlyRent       float64        `json:"monthly_rent"`
	AnnualExpenses    float64        `json:"annual_expenses"`
	LandPct           float64        `json:"land_pct"` // fraction of value attributed to land
	TotalCashInvested float64        `json:"total_cash_invested"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// AnnualRentalIncome returns the gross yearly rent.
func (p *Property) AnnualRentalIncome() float64 { return p.MonthlyRent * 12 }

// BuildingValue returns the depreciable portion of the purchase price.
func (p *Property) BuildingValue() float64 {
	return p.PurchasePrice * (1 - p.LandPct)
}

// Validate checks the fields the engine depends on.
func (p *Property) Validate() error {
	if p.Address == "" {
		return fmt.Errorf("property %s: address is required", p.ID)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("property %s: unknown status %q", p.ID, p.Status)
	}
	if p.PurchasePrice < 0 || p.MonthlyRent < 0 || p.AnnualExpenses < 0 {
		return fmt.Errorf("property %s: monetary fields must be non-negative", p.ID)
	}
	if p.LandPct < 0 || p.LandPct >= 1 {
		return fmt.Errorf("property %s: land_pct must be in [0,1)", p.ID)
	}
	return nil
}

// RentalComp is a rental comparable recorded against a property.
type RentalComp struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	Address     string    `json:"address"`
	MonthlyRent float64   `json:"monthly_rent"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   float64   `json:"bathrooms"`
	SquareFeet  float64   `json:"square_feet"`
	NotedAt     time.Time `json:"noted_at"`
}
