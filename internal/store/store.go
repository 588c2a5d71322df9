// Package store persists properties, rental comparables, and cached
// analysis snapshots. Snapshot rows are projections of engine output and
// are always recomputable; the property record is the source of truth.
package store

import (
	"errors"

	"github.com/eodozzy/real-estate-investment-manager/internal/model"
)

var (
	// ErrNotFound is returned when a property or snapshot does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidTransition is returned for an illegal status change.
	ErrInvalidTransition = errors.New("store: invalid status transition")
)

// Store is the property database.
type Store interface {
	SaveProperty(p *model.Property) error
	GetProperty(id string) (*model.Property, error)
	ListProperties(status model.PropertyStatus) ([]*model.Property, error) // empty status lists all
	DeleteProperty(id string) error
	TransitionStatus(id string, next model.PropertyStatus) error

	AddComp(c *model.RentalComp) error
	ListComps(propertyID string) ([]*model.RentalComp, error)

	RecordAnalysis(snap *model.AnalysisSnapshot) error
	LatestAnalysis(propertyID string, year int) (*model.AnalysisSnapshot, error)

	Close() error
}
